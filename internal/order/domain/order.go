package domain

import (
	"errors"
	"strings"
	"time"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// legacyCompleted appears in older data; it reads as Delivered and is never
// written back.
const legacyCompleted = "Completed"

var ErrUnknownStatus = errors.New("unknown order status")

func ParseStatus(s string) (Status, error) {
	switch {
	case strings.EqualFold(s, string(StatusPending)):
		return StatusPending, nil
	case strings.EqualFold(s, string(StatusProcessing)):
		return StatusProcessing, nil
	case strings.EqualFold(s, string(StatusShipped)):
		return StatusShipped, nil
	case strings.EqualFold(s, string(StatusDelivered)), strings.EqualFold(s, legacyCompleted):
		return StatusDelivered, nil
	case strings.EqualFold(s, string(StatusCancelled)):
		return StatusCancelled, nil
	}
	return "", ErrUnknownStatus
}

// Order is created only by a successful checkout. Everything except Status is
// immutable once committed; cancellation is a status change, never a delete.
type Order struct {
	ID              string
	UserID          string
	OrderDate       time.Time
	Status          Status
	TotalCents      int64
	ShippingAddress string
	Notes           string
	Details         []Detail
	UpdatedAt       time.Time
}

// Detail is a historical record: name, price and weight are the snapshots the
// customer was actually charged, decoupled from later catalog edits.
type Detail struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int32
	UnitCents   int64
	Weight      int64
	WeightUnit  string
	Flavor      string
}

func (o Order) ItemCount() int32 {
	var n int32
	for _, d := range o.Details {
		n += d.Quantity
	}
	return n
}
