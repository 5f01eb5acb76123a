package template

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"bennypowers.dev/lupls/internal/parser/ts"
)

// Placeholders replace each ${...} hole in the virtual content. The form is
// a valid html tag name, attribute name and css identifier, and the trailing
// dash keeps `${a}1` from reading as slot 01.
const placeholderPrefix = "lu-slot-"

var placeholderRE = regexp.MustCompile(`lu-slot-(\d+)-`)

// Placeholder returns the token standing in for value i.
func Placeholder(i int) string {
	return placeholderPrefix + strconv.Itoa(i) + "-"
}

// ParseSlotIndices returns the value indices of every placeholder in s.
func ParseSlotIndices(s string) []int {
	var out []int
	for _, m := range placeholderRE.FindAllStringSubmatch(s, -1) {
		if i, err := strconv.Atoi(m[1]); err == nil {
			out = append(out, i)
		}
	}
	return out
}

// IsPlaceholder reports whether s is exactly one placeholder.
func IsPlaceholder(s string) bool {
	loc := placeholderRE.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// breakpoint starts a run of virtual offsets. Literal runs translate 1:1;
// hole runs cover a placeholder standing for the host span [host, hostEnd).
type breakpoint struct {
	virtual    int
	host       int
	hole       bool
	virtualEnd int
	hostEnd    int
}

// Mapper translates between virtual content offsets and host file offsets.
type Mapper struct {
	points []breakpoint
}

// Virtualize flattens a tagged literal into virtual content and its Mapper.
func Virtualize(hostText string, lit *ts.Template) (string, *Mapper) {
	var b strings.Builder
	m := &Mapper{}
	for i, q := range lit.Quasis {
		m.points = append(m.points, breakpoint{
			virtual:    b.Len(),
			host:       q.Start,
			virtualEnd: b.Len() + q.Len(),
			hostEnd:    q.End,
		})
		b.WriteString(hostText[q.Start:q.End])

		if i >= len(lit.Values) {
			break
		}
		hole := lit.Values[i].Span
		ph := Placeholder(i)
		m.points = append(m.points, breakpoint{
			virtual:    b.Len(),
			host:       hole.Start,
			hole:       true,
			virtualEnd: b.Len() + len(ph),
			hostEnd:    hole.End,
		})
		b.WriteString(ph)
	}
	return b.String(), m
}

// ToHost maps a virtual offset to the host file. Offsets inside a
// placeholder advance through the hole, clamped to its end.
func (m *Mapper) ToHost(virtual int) int {
	if len(m.points) == 0 {
		return virtual
	}
	i := sort.Search(len(m.points), func(i int) bool {
		return m.points[i].virtual > virtual
	}) - 1
	if i < 0 {
		i = 0
	}
	p := m.points[i]
	delta := virtual - p.virtual
	if p.hole {
		return p.host + min(delta, p.hostEnd-p.host)
	}
	return p.host + delta
}

// ToVirtual maps a host offset into the virtual content. Offsets strictly
// inside an interpolation resolve to the placeholder start. ok is false for
// offsets outside the literal's content.
func (m *Mapper) ToVirtual(host int) (int, bool) {
	if len(m.points) == 0 {
		return 0, false
	}
	first, last := m.points[0], m.points[len(m.points)-1]
	if host < first.host || host > last.hostEnd {
		return 0, false
	}
	i := sort.Search(len(m.points), func(i int) bool {
		return m.points[i].host > host
	}) - 1
	p := m.points[i]
	if p.hole {
		return p.virtual, true
	}
	return p.virtual + min(host-p.host, p.virtualEnd-p.virtual), true
}

// InHole reports whether a host offset lies strictly inside an
// interpolation, where template services have nothing to offer.
func (m *Mapper) InHole(host int) bool {
	for _, p := range m.points {
		if p.hole && p.host < host && host < p.hostEnd {
			return true
		}
	}
	return false
}

// SlotIndexAt returns the value index whose placeholder covers virtual.
func (m *Mapper) SlotIndexAt(virtual int) (int, bool) {
	slot := 0
	for _, p := range m.points {
		if !p.hole {
			continue
		}
		if p.virtual <= virtual && virtual < p.virtualEnd {
			return slot, true
		}
		slot++
	}
	return 0, false
}
