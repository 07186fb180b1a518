package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/passkeep/passkeep/cmd"
	"github.com/passkeep/passkeep/internal/passgen"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "signup":
		runSignup(os.Args[2:])
	case "delete":
		runDelete(os.Args[2:])
	case "edit":
		runEdit(os.Args[2:])
	case "vaults":
		runVaults(os.Args[2:])
	case "vault":
		runVault(os.Args[2:])
	case "gen":
		runGen(os.Args[2:])
	case "dice":
		runDice(os.Args[2:])
	case "strength":
		runStrength(os.Args[2:])
	case "import":
		runImport(os.Args[2:])
	case "completion":
		runCompletion(os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func parseOrExit(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func requireArgs(fs *flag.FlagSet, count int, usage string) []string {
	if fs.NArg() != count {
		fmt.Fprintf(os.Stderr, "Usage: %s\n", usage)
		os.Exit(1)
	}
	return fs.Args()
}

func runSignup(args []string) {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	parseOrExit(fs, args)
	rest := requireArgs(fs, 1, "pk signup <username>")

	cmd.Signup(rest[0])
}

func runDelete(args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	parseOrExit(fs, args)
	rest := requireArgs(fs, 1, "pk delete <username>")

	cmd.DeleteAccount(rest[0])
}

func runEdit(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pk edit <username|password> <username>")
		os.Exit(1)
	}
	field := args[0]

	fs := flag.NewFlagSet("edit "+field, flag.ExitOnError)
	parseOrExit(fs, args[1:])
	rest := requireArgs(fs, 1, "pk edit "+field+" <username>")

	switch field {
	case "username":
		cmd.EditUsername(rest[0])
	case "password":
		cmd.EditPassword(rest[0])
	default:
		fmt.Fprintf(os.Stderr, "Unknown field: %s\nSupported: username, password\n", field)
		os.Exit(1)
	}
}

func runVaults(args []string) {
	fs := flag.NewFlagSet("vaults", flag.ExitOnError)
	parseOrExit(fs, args)
	rest := requireArgs(fs, 1, "pk vaults <username>")

	cmd.Vaults(rest[0])
}

func runVault(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pk vault <get|add|delete|edit> ...")
		os.Exit(1)
	}
	action := args[0]

	if action == "edit" {
		runVaultEdit(args[1:])
		return
	}

	fs := flag.NewFlagSet("vault "+action, flag.ExitOnError)
	parseOrExit(fs, args[1:])
	rest := requireArgs(fs, 2, "pk vault "+action+" <username> <name>")

	switch action {
	case "get":
		cmd.VaultGet(rest[0], rest[1])
	case "add":
		cmd.VaultAdd(rest[0], rest[1])
	case "delete":
		cmd.VaultDelete(rest[0], rest[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown action: %s\nSupported: get, add, delete, edit\n", action)
		os.Exit(1)
	}
}

func runVaultEdit(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pk vault edit <name|desc|password> <username> <vault>")
		os.Exit(1)
	}
	field := args[0]

	fs := flag.NewFlagSet("vault edit "+field, flag.ExitOnError)
	parseOrExit(fs, args[1:])
	rest := requireArgs(fs, 2, "pk vault edit "+field+" <username> <vault>")

	switch field {
	case "name":
		cmd.VaultEditName(rest[0], rest[1])
	case "desc":
		cmd.VaultEditDescription(rest[0], rest[1])
	case "password":
		cmd.VaultEditPassword(rest[0], rest[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown field: %s\nSupported: name, desc, password\n", field)
		os.Exit(1)
	}
}

func runGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	length := fs.Int("length", 25, "Password length")
	noSpecial := fs.Bool("no-special", false, "Exclude special characters")
	noDigit := fs.Bool("no-digit", false, "Exclude digits")
	noUpper := fs.Bool("no-upper", false, "Exclude uppercase letters")
	noLower := fs.Bool("no-lower", false, "Exclude lowercase letters")
	parseOrExit(fs, args)
	requireArgs(fs, 0, "pk gen [--length N] [--no-special] [--no-digit] [--no-upper] [--no-lower]")

	sets := passgen.Charsets{
		Punctuation: !*noSpecial,
		Digits:      !*noDigit,
		Upper:       !*noUpper,
		Lower:       !*noLower,
	}
	cmd.Generate(sets, *length)
}

func runDice(args []string) {
	fs := flag.NewFlagSet("dice", flag.ExitOnError)
	words := fs.Int("words", 6, "Number of words")
	separator := fs.String("separator", ".", "Word separator")
	parseOrExit(fs, args)
	requireArgs(fs, 0, "pk dice [--words N] [--separator S]")

	cmd.Dice(*words, *separator)
}

func runStrength(args []string) {
	fs := flag.NewFlagSet("strength", flag.ExitOnError)
	parseOrExit(fs, args)
	requireArgs(fs, 0, "pk strength")

	cmd.Strength()
}

func runImport(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pk import <words|leaks> <file>")
		os.Exit(1)
	}
	source := args[0]

	fs := flag.NewFlagSet("import "+source, flag.ExitOnError)
	parseOrExit(fs, args[1:])
	rest := requireArgs(fs, 1, "pk import "+source+" <file>")

	switch source {
	case "words":
		cmd.ImportWords(rest[0])
	case "leaks":
		cmd.ImportLeaks(rest[0])
	default:
		fmt.Fprintf(os.Stderr, "Unknown source: %s\nSupported: words, leaks\n", source)
		os.Exit(1)
	}
}

func runCompletion(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pk completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("pk - Local password manager")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pk <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  signup      Create a new account")
	fmt.Println("  delete      Delete an account and its keyring entry")
	fmt.Println("  edit        Change the account username or master password")
	fmt.Println("  vaults      List vault entries")
	fmt.Println("  vault       Read or modify a single vault entry")
	fmt.Println("  gen         Generate a random password")
	fmt.Println("  dice        Generate a diceware passphrase")
	fmt.Println("  strength    Rate a password's strength")
	fmt.Println("  import      Load wordlist or breach data")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  pk signup alice                 # Create account for alice")
	fmt.Println("  pk vault add alice github       # Store a password named github")
	fmt.Println("  pk vault get alice github       # Print it back")
	fmt.Println("  pk gen --length 32              # 32-character random password")
	fmt.Println()
	fmt.Println("Use 'pk help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "signup":
		fmt.Println("pk signup <username>")
		fmt.Println()
		fmt.Println("Creates a new account. Prompts twice for a master password,")
		fmt.Println("which must be at least 8 characters, must not equal the")
		fmt.Println("username and must not appear in the local breach corpus.")
		fmt.Println("A fresh secret key is stored in the OS keyring; the master")
		fmt.Println("password itself is never stored anywhere.")
	case "delete":
		fmt.Println("pk delete <username>")
		fmt.Println()
		fmt.Println("Deletes an account and its OS keyring entry after login and")
		fmt.Println("a typed confirmation. Encrypted vault rows are not removed,")
		fmt.Println("but without the account's key material they are unreadable.")
	case "edit":
		fmt.Println("pk edit <username|password> <username>")
		fmt.Println()
		fmt.Println("edit username   Rename the account and move its keyring entry.")
		fmt.Println("edit password   Change the master password. Every vault record")
		fmt.Println("                is re-encrypted under the new key in a single")
		fmt.Println("                transaction.")
	case "vaults":
		fmt.Println("pk vaults <username>")
		fmt.Println()
		fmt.Println("Lists the names of all vault entries, sorted.")
	case "vault":
		fmt.Println("pk vault get <username> <name>")
		fmt.Println("pk vault add <username> <name>")
		fmt.Println("pk vault delete <username> <name>")
		fmt.Println("pk vault edit <name|desc|password> <username> <name>")
		fmt.Println()
		fmt.Println("get      Print the entry's description and password.")
		fmt.Println("add      Store a new entry; prompts for description and password.")
		fmt.Println("         Warns if the password appears in the breach corpus.")
		fmt.Println("delete   Remove an entry after a typed confirmation.")
		fmt.Println("edit     Replace the entry's name, description or password.")
	case "gen":
		fmt.Println("pk gen [--length N] [--no-special] [--no-digit] [--no-upper] [--no-lower]")
		fmt.Println()
		fmt.Println("Prints a random password. Defaults to 25 characters drawn from")
		fmt.Println("all four character categories; each --no-* flag removes one.")
	case "dice":
		fmt.Println("pk dice [--words N] [--separator S]")
		fmt.Println()
		fmt.Println("Prints a diceware passphrase from the imported wordlist.")
		fmt.Println("Defaults to 6 words joined by '.'; the separator must be a")
		fmt.Println("single special character.")
		fmt.Println()
		fmt.Println("Run 'pk import words' first to populate the wordlist.")
	case "strength":
		fmt.Println("pk strength")
		fmt.Println()
		fmt.Println("Prompts for a password and prints its estimated entropy and a")
		fmt.Println("rating. Passphrases made of dictionary words with a single")
		fmt.Println("separator are rated with the diceware model; anything else is")
		fmt.Println("rated by its character categories.")
	case "import":
		fmt.Println("pk import words <file>")
		fmt.Println("pk import leaks <file>")
		fmt.Println()
		fmt.Println("words   Load an EFF-format wordlist (index<tab>word per line)")
		fmt.Println("        into the diceware dictionary.")
		fmt.Println("leaks   Load a HASH:COUNT breach dump of SHA-1 hashes into the")
		fmt.Println("        leaked-password corpus. Entries seen fewer than 100")
		fmt.Println("        times are skipped.")
	case "completion":
		fmt.Println("pk completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(pk completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(pk completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  pk completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
