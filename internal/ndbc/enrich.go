package ndbc

// HistorySlot names where historic descriptors attach on a Station.
type HistorySlot string

// RealtimeSlot names where realtime descriptors attach on a Station.
type RealtimeSlot string

const (
	SlotStdMetHistory HistorySlot = "stdmet_history"
	SlotCwindHistory  HistorySlot = "cwind_history"

	SlotStdMetRealtime RealtimeSlot = "stdmet_realtime"
	SlotCwindRealtime  RealtimeSlot = "cwind_realtime"
	SlotSpecRealtime   RealtimeSlot = "spec_realtime"
)

func (s HistorySlot) field(st *Station) *[]HistoricFile {
	switch s {
	case SlotStdMetHistory:
		return &st.StdMetHistory
	case SlotCwindHistory:
		return &st.CwindHistory
	default:
		return nil
	}
}

func (s RealtimeSlot) field(st *Station) *[]RealtimeFile {
	switch s {
	case SlotStdMetRealtime:
		return &st.StdMetRealtime
	case SlotCwindRealtime:
		return &st.CwindRealtime
	case SlotSpecRealtime:
		return &st.SpecRealtime
	default:
		return nil
	}
}

func groupByStation[T any](files []T, station func(T) string) map[string][]T {
	grouped := make(map[string][]T)
	for _, f := range files {
		key := CanonicalStation(station(f))
		grouped[key] = append(grouped[key], f)
	}
	return grouped
}

// EnrichHistory attaches files to the stations whose code matches. Stations
// without a match keep a nil slot. It returns the number of stations touched.
func EnrichHistory(stations []Station, slot HistorySlot, files []HistoricFile) int {
	grouped := groupByStation(files, func(f HistoricFile) string { return f.Station })
	matched := 0
	for i := range stations {
		dst := slot.field(&stations[i])
		if dst == nil {
			return 0
		}
		if found := grouped[CanonicalStation(stations[i].ID)]; len(found) > 0 {
			*dst = append(*dst, found...)
			matched++
		}
	}
	return matched
}

// EnrichRealtime is EnrichHistory for realtime descriptors.
func EnrichRealtime(stations []Station, slot RealtimeSlot, files []RealtimeFile) int {
	grouped := groupByStation(files, func(f RealtimeFile) string { return f.Station })
	matched := 0
	for i := range stations {
		dst := slot.field(&stations[i])
		if dst == nil {
			return 0
		}
		if found := grouped[CanonicalStation(stations[i].ID)]; len(found) > 0 {
			*dst = append(*dst, found...)
			matched++
		}
	}
	return matched
}
