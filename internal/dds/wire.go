package dds

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// envelope is the on-transport form of one sample.
type envelope struct {
	Topic           string          `json:"topic"`
	TypeName        string          `json:"type_name"`
	WriterGUID      string          `json:"writer_guid"`
	Sequence        uint64          `json:"sequence_number"`
	SourceTimestamp time.Time       `json:"source_timestamp"`
	ValidData       bool            `json:"valid_data"`
	Data            json.RawMessage `json:"data,omitempty"`
}

// dataTopic maps a DDS topic in a domain onto a transport topic.
// Topic names may hold spaces which NATS subjects forbid.
func dataTopic(domainID uint32, topic string) string {
	return fmt.Sprintf("dds.domain.%d.%s", domainID, sanitize(topic))
}

func builtinTopic(domainID uint32) string {
	return fmt.Sprintf("dds.domain.%d.__builtin", domainID)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
