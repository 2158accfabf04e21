// status.go
package model

import (
	"fmt"
	"strings"
)

// Status is the delivery state of a shipment. Only the four codes below are
// ever persisted.
type Status string

const (
	StatusLoading   Status = "LOADING"
	StatusInTransit Status = "IN_TRANSIT"
	StatusDelayed   Status = "DELAYED"
	StatusDelivered Status = "DELIVERED"
)

// Statuses lists every valid status in delivery order.
var Statuses = []Status{StatusLoading, StatusInTransit, StatusDelayed, StatusDelivered}

// Labels shown on the operator panel.
var statusLabels = map[Status]string{
	StatusLoading:   "ZAŁADUNEK",
	StatusInTransit: "W TRASIE",
	StatusDelayed:   "OPÓŹNIENIE",
	StatusDelivered: "DOSTARCZONO",
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	return statusLabels[s]
}

// Progress is the tracking bar fill in percent. Anything short of delivery
// shows the shipment halfway.
func (s Status) Progress() int {
	if s == StatusDelivered {
		return 100
	}
	return 50
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus accepts a status code or its panel label and returns the code.
func ParseStatus(raw string) (Status, error) {
	v := strings.TrimSpace(raw)
	if s := Status(v); s.IsValid() {
		return s, nil
	}
	for s, label := range statusLabels {
		if label == v {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown shipment status %q", raw)
}
