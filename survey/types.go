package survey

import "strings"

// Kind is the resolved type of a survey row.
type Kind int

const (
	Unknown Kind = iota

	// field types
	Integer
	Decimal
	Range
	Date
	Time
	DateTime
	Text
	Barcode
	Image
	Audio
	BackgroundAudio
	Video
	File
	SelectOne
	SelectOneFromFile
	SelectMultiple
	SelectMultipleFromFile
	Acknowledge
	Rank
	Calculate
	Hidden

	// metadata
	Start
	End
	Today
	DeviceID
	PhoneNumber
	Username
	Email
	Audit

	// geometry
	Geopoint
	Geotrace
	Geoshape
	StartGeopoint
	StartGeotrace
	StartGeoshape

	// layout
	Note
	BeginRepeat
	EndRepeat
	BeginGroup
	EndGroup
)

var kindNames = map[Kind]string{
	Integer:                "integer",
	Decimal:                "decimal",
	Range:                  "range",
	Date:                   "date",
	Time:                   "time",
	DateTime:               "datetime",
	Text:                   "text",
	Barcode:                "barcode",
	Image:                  "image",
	Audio:                  "audio",
	BackgroundAudio:        "background-audio",
	Video:                  "video",
	File:                   "file",
	SelectOne:              "select_one",
	SelectOneFromFile:      "select_one_from_file",
	SelectMultiple:         "select_multiple",
	SelectMultipleFromFile: "select_multiple_from_file",
	Acknowledge:            "acknowledge",
	Rank:                   "rank",
	Calculate:              "calculate",
	Hidden:                 "hidden",
	Start:                  "start",
	End:                    "end",
	Today:                  "today",
	DeviceID:               "deviceid",
	PhoneNumber:            "phonenumber",
	Username:               "username",
	Email:                  "email",
	Audit:                  "audit",
	Geopoint:               "geopoint",
	Geotrace:               "geotrace",
	Geoshape:               "geoshape",
	StartGeopoint:          "start-geopoint",
	StartGeotrace:          "start-geotrace",
	StartGeoshape:          "start-geoshape",
	Note:                   "note",
	BeginRepeat:            "begin repeat",
	EndRepeat:              "end repeat",
	BeginGroup:             "begin group",
	EndGroup:               "end group",
}

var kindsByName = map[string]Kind{}

func init() {
	for k, n := range kindNames {
		kindsByName[n] = k
	}
	kindsByName["begin_repeat"] = BeginRepeat
	kindsByName["end_repeat"] = EndRepeat
	kindsByName["begin_group"] = BeginGroup
	kindsByName["end_group"] = EndGroup
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// IsFieldType reports whether k is one of the recognised form field types,
// whether or not it can be stored.
func (k Kind) IsFieldType() bool { return k >= Integer && k <= Hidden }

func (k Kind) IsMetadata() bool { return k >= Start && k <= Audit }

func (k Kind) IsGeometry() bool { return k >= Geopoint && k <= StartGeoshape }

// IsMarker reports whether k opens or closes a repeat or group scope.
func (k Kind) IsMarker() bool { return k >= BeginRepeat && k <= EndGroup }

func (k Kind) IsSelect() bool { return k >= SelectOne && k <= SelectMultipleFromFile }

func (k Kind) IsFromFile() bool { return k == SelectOneFromFile || k == SelectMultipleFromFile }

func (k Kind) IsMultiSelect() bool { return k == SelectMultiple || k == SelectMultipleFromFile }

func (k Kind) IsMedia() bool { return k >= Image && k <= File }

// IsHostMetadata reports metadata filled in by the form host rather than the user.
func (k Kind) IsHostMetadata() bool {
	return k == Today || k == Start || k == End || k == Username || k == Email
}

// Type is a parsed survey type cell.
type Type struct {
	Kind Kind
	// Token is the lowercased type keyword, kept for diagnostics.
	Token string
	// Args are the remaining words, e.g. the list name of select_one.
	Args []string
}

// ParseType resolves a raw type cell such as "select_one yes_no".
func ParseType(raw string) Type {
	words := strings.Fields(raw)
	if len(words) == 0 {
		return Type{}
	}
	head := strings.ToLower(words[0])
	if len(words) == 2 && (head == "begin" || head == "end") {
		marker := head + " " + strings.ToLower(words[1])
		if k, ok := kindsByName[marker]; ok && k.IsMarker() {
			return Type{Kind: k, Token: marker}
		}
	}
	t := Type{Kind: kindsByName[head], Token: head}
	if len(words) > 1 {
		t.Args = words[1:]
	}
	return t
}

// ListRef returns the referenced list: the list name for select types, the
// joined file name for _from_file types.
func (t Type) ListRef() string {
	if len(t.Args) == 0 {
		return ""
	}
	if t.Kind.IsFromFile() {
		return strings.Join(t.Args, " ")
	}
	return t.Args[0]
}
