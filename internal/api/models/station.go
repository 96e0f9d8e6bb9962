package models

import "github.com/tidewire/tidewire/internal/ndbc"

// StationList is the enriched active-station roster.
type StationList struct {
	Items []ndbc.Station `json:"items"`
	Meta  ListMeta       `json:"meta"`
}

// HistoricFileList lists yearly or monthly archives.
type HistoricFileList struct {
	DataType ndbc.DataType       `json:"dataType"`
	Items    []ndbc.HistoricFile `json:"items"`
	Meta     ListMeta            `json:"meta"`
}

// RealtimeFileList lists realtime2 feed files.
type RealtimeFileList struct {
	Feed  ndbc.Feed           `json:"feed"`
	Items []ndbc.RealtimeFile `json:"items"`
	Meta  ListMeta            `json:"meta"`
}

// Observations wraps decoded records of one station and source file.
type Observations[T any] struct {
	Station  string        `json:"station"`
	DataType ndbc.DataType `json:"dataType"`
	Source   string        `json:"source"`
	Items    []T           `json:"items"`
	Meta     ListMeta      `json:"meta"`
}

// NewObservations wraps records, keeping an empty list non-null.
func NewObservations[T any](station string, dt ndbc.DataType, source string, items []T) Observations[T] {
	if items == nil {
		items = []T{}
	}
	return Observations[T]{
		Station:  ndbc.CanonicalStation(station),
		DataType: dt,
		Source:   source,
		Items:    items,
		Meta:     ListMeta{Count: len(items)},
	}
}
