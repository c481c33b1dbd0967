package model

// Package model defines domain data structures used across the app: selected
// files and their ordered list, upload tasks, server task states and widget
// phases. Structures are plain values with explicit state transitions.
