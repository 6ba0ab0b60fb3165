// Package client turns verified session tokens into principals and gates
// routes on the role authority's operation table.
package client
