// Package hub provides named, late-bindable indirection between ripple
// producers and consumers.
//
// A Hub maps topic names to Topics, creating entries on first reference.
// A Topic is a deferred handle to an eventually-bound publisher (its
// subject): consumers may subscribe before any producer exists, and
// producers may bind before any consumer exists, without losing events or
// double-delivering them. Structural subscription to the subject is
// demand-driven, exactly like an operator's upstream activation.
//
// Topic names are normalized to Unicode NFC, so composed and decomposed
// spellings of the same name address the same topic.
package hub
