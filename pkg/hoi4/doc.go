// Package hoi4 projects Hearts of Iron IV script files onto typed records.
//
// Each record type has a schema declaring which identifiers it recognizes.
// Several identifiers may feed one field (oob, OOB and set_oob all set
// Country.OOB; the last occurrence wins). Repeatable identifiers such as
// recruit_character or focus accumulate in file order. Anything else is kept
// in the record's Unknown bag and reported as an unknown_identifier
// diagnostic.
package hoi4
