// Package config provides configuration loading, merging, and validation
// facilities for cardmirror.
//
// Configuration is assembled from multiple sources in the following
// priority order (earlier sources win, zero fields are filled from later
// ones):
//  1. Command-line flags
//  2. Environment variables
//  3. JSON config file
//
// The main entry point is [GetConfig], which merges all sources, applies
// defaults, and validates the result.
package config
