// Package errors defines structured errors for Clausewitz script parsing.
//
// A syntax error carries the file location, the offending token, the set of
// grammar rules that would have been accepted at that point, a snippet of the
// surrounding source and, when one can be guessed, a suggestion:
//
//	[syntax] unexpected end of file
//	  --> history/countries/GER.txt:12:1
//	  |
//	   10 | set_politics = {
//	   11 |     ruling_party = fascism
//	-> 12 |
//	      |     ^
//	  |
//	  = expected: "}"
//	  = suggestion: Check for an unclosed '{' block
//
// Errors can be accumulated into an ErrorList when several files are processed.
package errors
