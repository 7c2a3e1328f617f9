package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

var (
	nodesMu sync.Mutex
	nodes   = map[int64]*snowflake.Node{}
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// NewRunID returns an identifier for one pipeline run. It is a snowflake ID
// on the node named by SNOWFLAKE_NODE (node 1 when unset or invalid).
func NewRunID() string {
	nodeID, err := strconv.ParseInt(os.Getenv("SNOWFLAKE_NODE"), 10, 64)
	if err != nil {
		nodeID = 1
	}
	return NewSnowflakeIDWithNode(nodeID)
}

// NewSnowflakeIDWithNode generates a snowflake ID string on the given node.
// Nodes are created once and reused so their sequence keeps IDs unique within
// a millisecond. An invalid node ID yields a KSUID instead.
func NewSnowflakeIDWithNode(nodeID int64) string {
	node, err := snowflakeNode(nodeID)
	if err != nil {
		return NewKSUID()
	}
	return node.Generate().String()
}

func snowflakeNode(nodeID int64) (*snowflake.Node, error) {
	nodesMu.Lock()
	defer nodesMu.Unlock()
	if n, ok := nodes[nodeID]; ok {
		return n, nil
	}
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	nodes[nodeID] = n
	return n, nil
}
