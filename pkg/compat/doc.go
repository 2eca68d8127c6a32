// Package compat defines the compatibility levels a subject can be
// configured with and helpers for parsing and classifying them.
//
// Levels follow the Confluent vocabulary: NONE disables checking,
// BACKWARD/FORWARD/FULL gate a proposed schema against the latest live
// version only, and the *_TRANSITIVE variants gate it against every
// live version in the subject's history.
package compat
