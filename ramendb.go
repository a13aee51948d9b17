// Package ramendb crawls a ramen review directory and turns its business,
// review and user pages into typed records.
//
// This package contains domain types, interfaces and the pure URL logic
// (classification, id extraction, dispatch rules, value normalization).
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, sqlite/, redis/).
package ramendb
