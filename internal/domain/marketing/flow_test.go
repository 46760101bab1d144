package marketing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dripFlow() FlowGraph {
	return FlowGraph{
		Nodes: []FlowNode{
			{ID: "t1", Kind: NodeKindTrigger, Event: TriggerOrderCreated},
			{ID: "d1", Kind: NodeKindDelay, DelayMinutes: 60},
			{ID: "a1", Kind: NodeKindAction, Action: ActionSendEmail, Subject: "Obrigado!", Body: "A sua encomenda foi recebida."},
		},
		Edges: []FlowEdge{
			{From: "t1", To: "d1"},
			{From: "d1", To: "a1"},
		},
	}
}

func TestFlowGraphValidate(t *testing.T) {
	t.Run("accepts trigger-delay-action chain", func(t *testing.T) {
		require.NoError(t, dripFlow().Validate())
	})

	t.Run("rejects empty graph", func(t *testing.T) {
		require.Error(t, FlowGraph{}.Validate())
	})

	t.Run("rejects missing trigger", func(t *testing.T) {
		g := FlowGraph{Nodes: []FlowNode{
			{ID: "a1", Kind: NodeKindAction, Action: ActionSendSMS},
		}}
		require.Error(t, g.Validate())
	})

	t.Run("rejects two triggers", func(t *testing.T) {
		g := FlowGraph{Nodes: []FlowNode{
			{ID: "t1", Kind: NodeKindTrigger, Event: TriggerOrderCreated},
			{ID: "t2", Kind: NodeKindTrigger, Event: TriggerCartAbandoned},
		}}
		require.Error(t, g.Validate())
	})

	t.Run("rejects duplicate node IDs", func(t *testing.T) {
		g := FlowGraph{Nodes: []FlowNode{
			{ID: "n", Kind: NodeKindTrigger, Event: TriggerOrderCreated},
			{ID: "n", Kind: NodeKindAction, Action: ActionSendEmail},
		}}
		require.Error(t, g.Validate())
	})

	t.Run("rejects dangling edge", func(t *testing.T) {
		g := dripFlow()
		g.Edges = append(g.Edges, FlowEdge{From: "a1", To: "ghost"})
		require.Error(t, g.Validate())
	})

	t.Run("rejects a cycle", func(t *testing.T) {
		g := FlowGraph{
			Nodes: []FlowNode{
				{ID: "t1", Kind: NodeKindTrigger, Event: TriggerOrderCreated},
				{ID: "a1", Kind: NodeKindAction, Action: ActionSendEmail},
				{ID: "a2", Kind: NodeKindAction, Action: ActionSendEmail},
			},
			Edges: []FlowEdge{
				{From: "t1", To: "a1"},
				{From: "a1", To: "a2"},
				{From: "a2", To: "a1"},
			},
		}
		err := g.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle")
	})

	t.Run("rejects an edge back to the trigger", func(t *testing.T) {
		g := dripFlow()
		g.Edges = append(g.Edges, FlowEdge{From: "a1", To: "t1"})
		require.Error(t, g.Validate())
	})

	t.Run("rejects a node unreachable from the trigger", func(t *testing.T) {
		g := dripFlow()
		g.Nodes = append(g.Nodes, FlowNode{ID: "orphan", Kind: NodeKindAction, Action: ActionSendSMS})
		err := g.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not reachable")
	})
}

func TestFlowNodeDecoding(t *testing.T) {
	t.Run("decodes known kinds", func(t *testing.T) {
		raw := `{"nodes":[
			{"id":"t1","kind":"trigger","event":"cart.abandoned"},
			{"id":"d1","kind":"delay","delay_minutes":30},
			{"id":"a1","kind":"action","action":"apply_coupon","coupon_code":"VOLTA10"}
		],"edges":[{"from":"t1","to":"d1"},{"from":"d1","to":"a1"}]}`

		var g FlowGraph
		require.NoError(t, json.Unmarshal([]byte(raw), &g))
		require.Len(t, g.Nodes, 3)
		assert.Equal(t, "VOLTA10", g.Nodes[2].CouponCode)
	})

	t.Run("rejects unknown node kind", func(t *testing.T) {
		var g FlowGraph
		err := json.Unmarshal([]byte(`{"nodes":[{"id":"x","kind":"webhook"}]}`), &g)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown kind")
	})

	t.Run("rejects unknown trigger event", func(t *testing.T) {
		var g FlowGraph
		err := json.Unmarshal([]byte(`{"nodes":[{"id":"t","kind":"trigger","event":"order.deleted"}]}`), &g)
		require.Error(t, err)
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		var g FlowGraph
		err := json.Unmarshal([]byte(`{"nodes":[{"id":"a","kind":"action","action":"send_pigeon"}]}`), &g)
		require.Error(t, err)
	})

	t.Run("rejects non-positive delay", func(t *testing.T) {
		var g FlowGraph
		err := json.Unmarshal([]byte(`{"nodes":[{"id":"d","kind":"delay","delay_minutes":0}]}`), &g)
		require.Error(t, err)
	})
}

func TestFlowGraphWalk(t *testing.T) {
	g := dripFlow()

	trigger, ok := g.Trigger()
	require.True(t, ok)
	assert.Equal(t, "t1", trigger.ID)

	next, ok := g.Next("t1")
	require.True(t, ok)
	assert.Equal(t, NodeKindDelay, next.Kind)

	next, ok = g.Next("d1")
	require.True(t, ok)
	assert.Equal(t, ActionSendEmail, next.Action)

	_, ok = g.Next("a1")
	assert.False(t, ok)
}

func TestFlowGraphScanRoundTrip(t *testing.T) {
	g := dripFlow()
	value, err := g.Value()
	require.NoError(t, err)

	var decoded FlowGraph
	require.NoError(t, decoded.Scan(value))
	require.Len(t, decoded.Nodes, 3)
	assert.Equal(t, g.Nodes[1].DelayMinutes, decoded.Nodes[1].DelayMinutes)
	require.NoError(t, decoded.Validate())
}
