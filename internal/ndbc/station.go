package ndbc

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// Flag is a tri-state capability marker from the roster feed.
type Flag int8

const (
	FlagUnknown Flag = iota
	FlagNo
	FlagYes
)

func (f Flag) String() string {
	switch f {
	case FlagYes:
		return "yes"
	case FlagNo:
		return "no"
	default:
		return "unknown"
	}
}

// UnmarshalXMLAttr decodes the roster's y/n markers.
func (f *Flag) UnmarshalXMLAttr(attr xml.Attr) error {
	switch strings.ToLower(strings.TrimSpace(attr.Value)) {
	case "y", "yes":
		*f = FlagYes
	case "n", "no":
		*f = FlagNo
	default:
		*f = FlagUnknown
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return f.UnmarshalXMLAttr(xml.Attr{Value: s})
}

// Station is one roster entry plus the data files discovered for it.
type Station struct {
	ID           string   `xml:"id,attr" json:"id"`
	Lat          *float64 `xml:"lat,attr" json:"lat,omitempty"`
	Lon          *float64 `xml:"lon,attr" json:"lon,omitempty"`
	Elev         *float64 `xml:"elev,attr" json:"elev,omitempty"`
	Name         string   `xml:"name,attr" json:"name,omitempty"`
	Owner        string   `xml:"owner,attr" json:"owner,omitempty"`
	Program      string   `xml:"pgm,attr" json:"program,omitempty"`
	Type         string   `xml:"type,attr" json:"type,omitempty"`
	Met          Flag     `xml:"met,attr" json:"met"`
	Currents     Flag     `xml:"currents,attr" json:"currents"`
	WaterQuality Flag     `xml:"waterquality,attr" json:"waterQuality"`
	DART         Flag     `xml:"dart,attr" json:"dart"`

	StdMetHistory  []HistoricFile `xml:"-" json:"stdmetHistory,omitempty"`
	CwindHistory   []HistoricFile `xml:"-" json:"cwindHistory,omitempty"`
	StdMetRealtime []RealtimeFile `xml:"-" json:"stdmetRealtime,omitempty"`
	CwindRealtime  []RealtimeFile `xml:"-" json:"cwindRealtime,omitempty"`
	SpecRealtime   []RealtimeFile `xml:"-" json:"specRealtime,omitempty"`
}

// Roster is the decoded activestations.xml document.
type Roster struct {
	XMLName  xml.Name  `xml:"stations" json:"-"`
	Created  string    `xml:"created,attr" json:"created"`
	Count    int       `xml:"count,attr" json:"count"`
	Stations []Station `xml:"station" json:"stations"`
}

// rosterTimeLayout matches the feed's "2024-03-12T14:50:01UTC" stamps.
const rosterTimeLayout = "2006-01-02T15:04:05UTC"

// CreatedAt parses the roster generation time.
func (r *Roster) CreatedAt() (time.Time, error) {
	return time.Parse(rosterTimeLayout, r.Created)
}

// ParseRoster decodes an activestations.xml document. Station codes are
// canonicalized to upper case.
func ParseRoster(r io.Reader) (*Roster, error) {
	var roster Roster
	if err := xml.NewDecoder(r).Decode(&roster); err != nil {
		return nil, fmt.Errorf("decode active stations: %w", err)
	}
	for i := range roster.Stations {
		roster.Stations[i].ID = CanonicalStation(roster.Stations[i].ID)
	}
	return &roster, nil
}

// MetadataHistory is one deployment period of a station.
type MetadataHistory struct {
	Start            string   `xml:"start,attr" json:"start,omitempty"`
	Stop             string   `xml:"stop,attr" json:"stop,omitempty"`
	Lat              *float64 `xml:"lat,attr" json:"lat,omitempty"`
	Lng              *float64 `xml:"lng,attr" json:"lng,omitempty"`
	Elev             string   `xml:"elev,attr" json:"elev,omitempty"`
	Met              Flag     `xml:"met,attr" json:"met"`
	Hull             string   `xml:"hull,attr" json:"hull,omitempty"`
	AnemometerHeight string   `xml:"anemom_height,attr" json:"anemometerHeight,omitempty"`
}

// StationMetadata is the deployment history of one station.
type StationMetadata struct {
	ID      string            `xml:"id,attr" json:"id"`
	Name    string            `xml:"name,attr" json:"name,omitempty"`
	Owner   string            `xml:"owner,attr" json:"owner,omitempty"`
	Program string            `xml:"pgm,attr" json:"program,omitempty"`
	Type    string            `xml:"type,attr" json:"type,omitempty"`
	History []MetadataHistory `xml:"history" json:"history"`
}

// MetadataCatalog is the decoded stationmetadata.xml document.
type MetadataCatalog struct {
	Created  string            `xml:"created,attr" json:"created"`
	Stations []StationMetadata `xml:"station" json:"stations"`
}

// ParseStationMetadata decodes a stationmetadata.xml document.
func ParseStationMetadata(r io.Reader) (*MetadataCatalog, error) {
	var catalog MetadataCatalog
	if err := xml.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("decode station metadata: %w", err)
	}
	for i := range catalog.Stations {
		catalog.Stations[i].ID = CanonicalStation(catalog.Stations[i].ID)
	}
	return &catalog, nil
}

// Find returns the metadata of station id.
func (c *MetadataCatalog) Find(id string) (StationMetadata, bool) {
	id = CanonicalStation(id)
	for _, s := range c.Stations {
		if s.ID == id {
			return s, true
		}
	}
	return StationMetadata{}, false
}
