package id

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets up the Snowflake node. Only the first call has any effect, so
// the server and the scan CLI use distinct node IDs.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns a time-ordered int64 ID. Grade entries, planned controls,
// subjects and users all draw from it. Init must have been called.
func New() int64 {
	if node == nil {
		panic("id: New called before Init")
	}
	return node.Generate().Int64()
}

// NewString returns New in base 10, the form IDs take in JSON and headers.
func NewString() string {
	return strconv.FormatInt(New(), 10)
}
