// Package cli provides the passvault command-line client.
//
// Every command loads the configuration, opens the local session store and
// talks to the server's JSON API. login saves the access token in the store;
// logout forgets it. Passwords are always read from the terminal without echo.
package cli
