package cmd

import "fmt"

// DeleteAccount removes an account after login and a typed confirmation.
// Vault rows are left behind; without the account's key material they
// cannot be decrypted.
func DeleteAccount(username string) {
	engine, _, cleanup := OpenEngine()
	defer cleanup()

	session := Login(engine, username)
	Confirm(fmt.Sprintf("deleting account %q", username))
	if err := session.DeleteUser(); err != nil {
		Fail(err)
	}
	fmt.Printf("Deleted account %q\n", username)
}

// EditUsername renames an account.
func EditUsername(username string) {
	engine, _, cleanup := OpenEngine()
	defer cleanup()

	session := Login(engine, username)
	newUsername := ReadLine("New Username: ")
	if err := session.EditUsername(newUsername); err != nil {
		Fail(err)
	}
	fmt.Printf("Renamed account to %q\n", newUsername)
}

// EditPassword changes the master password, re-encrypting every vault
// record under the freshly derived crypt key.
func EditPassword(username string) {
	engine, _, cleanup := OpenEngine()
	defer cleanup()

	session := Login(engine, username)
	password := ReadPassword("New Password: ")
	confirm := ReadPassword("Repeat Password: ")
	if err := session.EditPassword(password, confirm); err != nil {
		Fail(err)
	}
	fmt.Println("Password changed")
}
