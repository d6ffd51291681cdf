// Package magetasks provides organized build tasks for the skipif project.
//
// This package contains all the build, test, lint, and quality tasks
// used by the Magefile. Tasks are organized into logical namespaces
// for better discoverability and maintainability.
package magetasks
