package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_pk() {
    local cur prev words cword
    _init_completion || return

    local commands="signup delete edit vaults vault gen dice strength import help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        edit)
            if [[ $cword -eq 2 ]]; then
                COMPREPLY=($(compgen -W "username password" -- "$cur"))
            fi
            ;;
        vault)
            if [[ $cword -eq 2 ]]; then
                COMPREPLY=($(compgen -W "get add delete edit" -- "$cur"))
            elif [[ $cword -eq 3 && "${words[2]}" == "edit" ]]; then
                COMPREPLY=($(compgen -W "name desc password" -- "$cur"))
            fi
            ;;
        gen)
            COMPREPLY=($(compgen -W "--length --no-special --no-digit --no-upper --no-lower" -- "$cur"))
            ;;
        dice)
            COMPREPLY=($(compgen -W "--words --separator" -- "$cur"))
            ;;
        import)
            if [[ $cword -eq 2 ]]; then
                COMPREPLY=($(compgen -W "words leaks" -- "$cur"))
            else
                _filedir
            fi
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _pk pk
`

const zshCompletion = `#compdef pk

_pk() {
    local -a commands
    commands=(
        'signup:Create a new account'
        'delete:Delete an account'
        'edit:Change account username or password'
        'vaults:List vault entries'
        'vault:Read or modify a vault entry'
        'gen:Generate a random password'
        'dice:Generate a diceware passphrase'
        'strength:Rate a password'
        'import:Load wordlist or breach data'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'pk commands' commands
            ;;
        args)
            case "${words[2]}" in
                edit)
                    _values 'field' username password
                    ;;
                vault)
                    if (( CURRENT == 3 )); then
                        _values 'action' get add delete edit
                    elif (( CURRENT == 4 )) && [[ "${words[3]}" == "edit" ]]; then
                        _values 'field' name desc password
                    fi
                    ;;
                gen)
                    _arguments \
                        '--length[Password length]' \
                        '--no-special[Exclude special characters]' \
                        '--no-digit[Exclude digits]' \
                        '--no-upper[Exclude uppercase letters]' \
                        '--no-lower[Exclude lowercase letters]'
                    ;;
                dice)
                    _arguments \
                        '--words[Number of words]' \
                        '--separator[Word separator]'
                    ;;
                import)
                    if (( CURRENT == 3 )); then
                        _values 'source' words leaks
                    else
                        _files
                    fi
                    ;;
                help)
                    _describe -t commands 'pk commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_pk "$@"
`

const fishCompletion = `# pk fish completions

set -l commands signup delete edit vaults vault gen dice strength import help completion

complete -c pk -f

# Commands
complete -c pk -n "not __fish_seen_subcommand_from $commands" -a signup -d 'Create a new account'
complete -c pk -n "not __fish_seen_subcommand_from $commands" -a delete -d 'Delete an account'
complete -c pk -n "not __fish_seen_subcommand_from $commands" -a edit -d 'Change username or password'
complete -c pk -n "not __fish_seen_subcommand_from $commands" -a vaults -d 'List vault entries'
complete -c pk -n "not __fish_seen_subcommand_from $commands" -a vault -d 'Read or modify a vault entry'
complete -c pk -n "not __fish_seen_subcommand_from $commands" -a gen -d 'Generate a random password'
complete -c pk -n "not __fish_seen_subcommand_from $commands" -a dice -d 'Generate a diceware passphrase'
complete -c pk -n "not __fish_seen_subcommand_from $commands" -a strength -d 'Rate a password'
complete -c pk -n "not __fish_seen_subcommand_from $commands" -a import -d 'Load wordlist or breach data'
complete -c pk -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c pk -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# edit fields
complete -c pk -n "__fish_seen_subcommand_from edit" -a "username password"

# vault actions
complete -c pk -n "__fish_seen_subcommand_from vault" -a "get add delete edit name desc password"

# gen flags
complete -c pk -n "__fish_seen_subcommand_from gen" -l length -d 'Password length'
complete -c pk -n "__fish_seen_subcommand_from gen" -l no-special -d 'Exclude special characters'
complete -c pk -n "__fish_seen_subcommand_from gen" -l no-digit -d 'Exclude digits'
complete -c pk -n "__fish_seen_subcommand_from gen" -l no-upper -d 'Exclude uppercase letters'
complete -c pk -n "__fish_seen_subcommand_from gen" -l no-lower -d 'Exclude lowercase letters'

# dice flags
complete -c pk -n "__fish_seen_subcommand_from dice" -l words -d 'Number of words'
complete -c pk -n "__fish_seen_subcommand_from dice" -l separator -d 'Word separator'

# import sources
complete -c pk -n "__fish_seen_subcommand_from import" -a "words leaks" -F

# help completions
complete -c pk -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c pk -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
