// Package aggregates owns transaction boundaries for writes that span several
// repos, such as license approval and manual versioning.
package aggregates
