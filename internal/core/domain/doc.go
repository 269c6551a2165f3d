// Package domain contains the core business entities for docask.
// Domain types are plain values with no infrastructure dependencies.
package domain
