/*
Package session implements the calculator session and its concurrent access.

A Session owns the input buffer, the bounded history, the memory register and
the angle mode, and exposes one operation per keypad input class. Expressions
are entered algebraically and only validated on Evaluate; scientific keys can
also run in immediate-execution mode through ApplyFunction, which evaluates
the whole buffer first and applies the function to the resulting number.

The Manager serialises events per session ID on top of a ports.SessionStore,
so the same sessions can be driven from the REPL, HTTP and MCP adapters.
*/
package session
