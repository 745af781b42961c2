package matrix

// TopicCounter stores the token-topic tensor: for every (cell, topic)
// pair the number of tokens of that cell currently assigned to the topic.
// A cell is one (document, word) pair, flattened as d*V+v.
type TopicCounter interface {
	// number of cells and topics
	Shape() (uint32, uint32)
	Get(cell, topic uint32) uint32
	Set(cell, topic uint32, val uint32)
	Incr(cell, topic uint32, val uint32)
	Decr(cell, topic uint32, val uint32)
}
