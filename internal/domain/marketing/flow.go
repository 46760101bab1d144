package marketing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/sabores/backend/internal/domain/shared"
)

// NodeKind discriminates flow node variants
type NodeKind string

const (
	NodeKindTrigger NodeKind = "trigger"
	NodeKindDelay   NodeKind = "delay"
	NodeKindAction  NodeKind = "action"
)

// ActionType names the executable step of an action node
type ActionType string

const (
	ActionSendEmail   ActionType = "send_email"
	ActionSendSMS     ActionType = "send_sms"
	ActionApplyCoupon ActionType = "apply_coupon"
)

// IsValid checks if the action type is known
func (a ActionType) IsValid() bool {
	switch a {
	case ActionSendEmail, ActionSendSMS, ActionApplyCoupon:
		return true
	}
	return false
}

// Trigger event names a flow can subscribe to
const (
	TriggerOrderCreated  = "order.created"
	TriggerCartAbandoned = "cart.abandoned"
)

// FlowNode is one step in a flow graph. The Kind field selects which of
// the variant fields are meaningful; decoding rejects unknown kinds.
type FlowNode struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`

	// trigger
	Event string `json:"event,omitempty"`

	// delay
	DelayMinutes int `json:"delay_minutes,omitempty"`

	// action
	Action     ActionType `json:"action,omitempty"`
	Subject    string     `json:"subject,omitempty"`
	Body       string     `json:"body,omitempty"`
	CouponCode string     `json:"coupon_code,omitempty"`
}

// UnmarshalJSON decodes a node and validates its variant fields
func (n *FlowNode) UnmarshalJSON(data []byte) error {
	type alias FlowNode
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.ID == "" {
		return fmt.Errorf("flow node is missing an id")
	}

	switch a.Kind {
	case NodeKindTrigger:
		if a.Event != TriggerOrderCreated && a.Event != TriggerCartAbandoned {
			return fmt.Errorf("flow node %s: unknown trigger event %q", a.ID, a.Event)
		}
	case NodeKindDelay:
		if a.DelayMinutes <= 0 {
			return fmt.Errorf("flow node %s: delay must be positive", a.ID)
		}
	case NodeKindAction:
		if !a.Action.IsValid() {
			return fmt.Errorf("flow node %s: unknown action %q", a.ID, a.Action)
		}
	default:
		return fmt.Errorf("flow node %s: unknown kind %q", a.ID, a.Kind)
	}

	*n = FlowNode(a)
	return nil
}

// FlowEdge connects two nodes in a flow graph
type FlowEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FlowGraph is the persisted shape of an automation: a trigger node
// followed by delay and action nodes linked by edges.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`
}

// Validate checks graph structure: exactly one trigger, unique node IDs,
// edges that reference existing nodes, and a chain from the trigger that
// visits every node exactly once. Execution follows the first outgoing
// edge of each node, so a revisit would mean an endless run.
func (g FlowGraph) Validate() error {
	if len(g.Nodes) == 0 {
		return shared.NewDomainError("INVALID_FLOW", "Flow has no nodes")
	}

	ids := make(map[string]bool, len(g.Nodes))
	triggers := 0
	for _, node := range g.Nodes {
		if ids[node.ID] {
			return shared.NewDomainError("INVALID_FLOW", fmt.Sprintf("Duplicate node ID %s", node.ID))
		}
		ids[node.ID] = true
		if node.Kind == NodeKindTrigger {
			triggers++
		}
	}
	if triggers != 1 {
		return shared.NewDomainError("INVALID_FLOW", "Flow must have exactly one trigger node")
	}

	for _, edge := range g.Edges {
		if !ids[edge.From] || !ids[edge.To] {
			return shared.NewDomainError("INVALID_FLOW",
				fmt.Sprintf("Edge %s -> %s references an unknown node", edge.From, edge.To))
		}
	}

	trigger, _ := g.Trigger()
	visited := make(map[string]bool, len(g.Nodes))
	visited[trigger.ID] = true
	for node, ok := g.Next(trigger.ID); ok; node, ok = g.Next(node.ID) {
		if visited[node.ID] {
			return shared.NewDomainError("INVALID_FLOW",
				fmt.Sprintf("Flow contains a cycle through node %s", node.ID))
		}
		visited[node.ID] = true
	}
	for _, node := range g.Nodes {
		if !visited[node.ID] {
			return shared.NewDomainError("INVALID_FLOW",
				fmt.Sprintf("Node %s is not reachable from the trigger", node.ID))
		}
	}

	return nil
}

// Trigger returns the flow's trigger node
func (g FlowGraph) Trigger() (*FlowNode, bool) {
	for idx := range g.Nodes {
		if g.Nodes[idx].Kind == NodeKindTrigger {
			return &g.Nodes[idx], true
		}
	}
	return nil, false
}

// Node returns the node with the given ID
func (g FlowGraph) Node(id string) (*FlowNode, bool) {
	for idx := range g.Nodes {
		if g.Nodes[idx].ID == id {
			return &g.Nodes[idx], true
		}
	}
	return nil, false
}

// Next returns the node following the given one, walking the first
// outgoing edge. Branching is not supported.
func (g FlowGraph) Next(fromID string) (*FlowNode, bool) {
	for _, edge := range g.Edges {
		if edge.From == fromID {
			return g.Node(edge.To)
		}
	}
	return nil, false
}

// Value implements driver.Valuer
func (g FlowGraph) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan implements sql.Scanner. Decoding runs node validation, so rows
// holding unknown node kinds surface as errors instead of silent no-ops.
func (g *FlowGraph) Scan(value interface{}) error {
	if value == nil {
		*g = FlowGraph{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for FlowGraph: %T", value)
	}
	return json.Unmarshal(data, g)
}
