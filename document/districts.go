package document

import "io"

// District describes the electoral subdivision of one municipality, read
// from the per-municipality files (e.g. "slutresultat_0180K.xml").
type District struct {
	Municipality     string `json:"municipality"`
	Code             string `json:"code"`
	Constituencies   int    `json:"constituencies"`
	PollingDistricts int    `json:"pollingDistricts"`
}

// ParseDistricts reads the KOMMUN elements directly under the root of a
// per-municipality file and counts their constituencies (KRETS_KOMMUN) and
// polling districts (VALDISTRIKT).
func ParseDistricts(r io.Reader) ([]District, error) {
	root, err := decode(r)
	if err != nil {
		return nil, malformed("decode xml: %v", err)
	}

	var out []District
	for i := range root.Children {
		k := &root.Children[i]
		if k.tag() != "KOMMUN" {
			continue
		}
		d := District{Municipality: k.attr("NAMN"), Code: k.attr("KOD")}
		if d.Municipality == "" || d.Code == "" {
			return nil, malformed("KOMMUN missing NAMN or KOD")
		}
		for j := range k.Children {
			krets := &k.Children[j]
			if krets.tag() != "KRETS_KOMMUN" {
				continue
			}
			d.Constituencies++
			for _, v := range krets.Children {
				if v.tag() == "VALDISTRIKT" {
					d.PollingDistricts++
				}
			}
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, malformed("no KOMMUN element under <%s>", root.tag())
	}
	return out, nil
}

// Districts derives district metadata from the municipalities of a national
// or municipal results file, for when the per-municipality files are not at
// hand. Those files list the constituencies only; PollingDistricts stays
// zero. Municipalities without KRETS_KOMMUN children are left out.
func (d *ElectionDocument) Districts() []District {
	var out []District
	for _, n := range d.Units() {
		if n.Level != Municipality || n.DistrictCount == 0 {
			continue
		}
		out = append(out, District{Municipality: n.Name, Code: n.Code, Constituencies: n.DistrictCount})
	}
	return out
}
