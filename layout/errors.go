package layout

import (
	"fmt"

	"github.com/wudi/docflow/document"
)

// StructuralError reports a node that matches no recognized structure.
// It aborts the layout call; the message carries a snapshot of the
// offending node.
type StructuralError struct {
	Node *document.Node
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("layout: unrecognized document structure: %s", e.Node.Snapshot())
}

// ConfigurationError reports an impossible table configuration, such
// as a row span whose ending row falls outside the table body.
type ConfigurationError struct {
	Column int
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("layout: column %d: %s", e.Column, e.Reason)
}
