package cluster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/opnfv/kube-node-validator/pkg/logging"
	"k8s.io/apimachinery/pkg/labels"
)

var (
	// ErrNodeNotFound is returned when the requested node does not exist
	ErrNodeNotFound = errors.New("node not found")

	// ErrNoLabeledNodes is returned when no node carries the requested label
	ErrNoLabeledNodes = errors.New("no labeled nodes")
)

// SelectionError explains why no node was selected
type SelectionError struct {
	kind error
	msg  string
}

func (e *SelectionError) Error() string {
	return e.msg
}

func (e *SelectionError) Unwrap() error {
	return e.kind
}

// Label is a single key/value node label
type Label struct {
	Key   string
	Value string
}

// String renders the label the way it is given on the command line
func (l Label) String() string {
	return l.Key + ":" + l.Value
}

// ParseLabel parses "key:value" or "key=value"
func ParseLabel(s string) (*Label, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		key, value, ok = strings.Cut(s, ":")
	}
	if !ok || key == "" {
		return nil, fmt.Errorf("invalid label %q, expected key:value", s)
	}
	return &Label{Key: key, Value: value}, nil
}

// Selection restricts the nodes under validation
type Selection struct {
	// Label keeps only nodes carrying this label, nil for all
	Label *Label

	// Node keeps only the node with this name, empty for all
	Node string
}

// SelectNodes returns the names of the nodes eligible for validation.
// The query is read-only.
func SelectNodes(ctx context.Context, gw Gateway, sel Selection) ([]string, error) {
	selector := ""
	if sel.Label != nil {
		s, err := labels.ValidatedSelectorFromSet(labels.Set{sel.Label.Key: sel.Label.Value})
		if err != nil {
			return nil, fmt.Errorf("invalid label %s: %w", sel.Label, err)
		}
		selector = s.String()
	}

	nodes, err := gw.ListNodes(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("Kubernetes API error: %w", err)
	}

	var names []string
	for _, node := range nodes {
		if sel.Node != "" && node.Name != sel.Node {
			continue
		}
		names = append(names, node.Name)
	}

	if len(names) == 0 {
		if sel.Node != "" {
			return nil, &SelectionError{kind: ErrNodeNotFound, msg: fmt.Sprintf("Cannot find node with name %s", sel.Node)}
		}
		if sel.Label != nil {
			return nil, &SelectionError{kind: ErrNoLabeledNodes, msg: fmt.Sprintf("Cannot find node(s) with label %s", sel.Label)}
		}
		return nil, errors.New("cluster has no nodes")
	}

	logging.For("selector").Debugf("selected %d node(s): %s", len(names), strings.Join(names, ", "))
	return names, nil
}
