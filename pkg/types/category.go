// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"sort"
)

// Category is an arXiv subject classification code such as "cs.AI".
// The constants below form the closed set accepted by ParseCategory; records
// parsed from a feed may carry codes outside that set.
type Category string

const (
	CsAI Category = "cs.AI"
	CsAR Category = "cs.AR"
	CsCC Category = "cs.CC"
	CsCE Category = "cs.CE"
	CsCG Category = "cs.CG"
	CsCL Category = "cs.CL"
	CsCR Category = "cs.CR"
	CsCV Category = "cs.CV"
	CsCY Category = "cs.CY"
	CsDB Category = "cs.DB"
	CsDC Category = "cs.DC"
	CsDL Category = "cs.DL"
	CsDM Category = "cs.DM"
	CsDS Category = "cs.DS"
	CsET Category = "cs.ET"
	CsFL Category = "cs.FL"
	CsGL Category = "cs.GL"
	CsGR Category = "cs.GR"
	CsGT Category = "cs.GT"
	CsHC Category = "cs.HC"
	CsIR Category = "cs.IR"
	CsIT Category = "cs.IT"
	CsLG Category = "cs.LG"
	CsLO Category = "cs.LO"
	CsMA Category = "cs.MA"
	CsMM Category = "cs.MM"
	CsMS Category = "cs.MS"
	CsNA Category = "cs.NA"
	CsNE Category = "cs.NE"
	CsNI Category = "cs.NI"
	CsOH Category = "cs.OH"
	CsOS Category = "cs.OS"
	CsPF Category = "cs.PF"
	CsPL Category = "cs.PL"
	CsRO Category = "cs.RO"
	CsSC Category = "cs.SC"
	CsSD Category = "cs.SD"
	CsSE Category = "cs.SE"
	CsSI Category = "cs.SI"
	CsSY Category = "cs.SY"

	StatML Category = "stat.ML"
	MathOC Category = "math.OC"
	EessAS Category = "eess.AS"
	EessIV Category = "eess.IV"
	EessSP Category = "eess.SP"
	EessSY Category = "eess.SY"
)

// ErrUnknownCategory is returned by ParseCategory for codes outside the closed set.
var ErrUnknownCategory = errors.New("unknown category")

var categoryNames = map[Category]string{
	CsAI:   "Artificial Intelligence",
	CsAR:   "Hardware Architecture",
	CsCC:   "Computational Complexity",
	CsCE:   "Computational Engineering, Finance, and Science",
	CsCG:   "Computational Geometry",
	CsCL:   "Computation and Language",
	CsCR:   "Cryptography and Security",
	CsCV:   "Computer Vision and Pattern Recognition",
	CsCY:   "Computers and Society",
	CsDB:   "Databases",
	CsDC:   "Distributed, Parallel, and Cluster Computing",
	CsDL:   "Digital Libraries",
	CsDM:   "Discrete Mathematics",
	CsDS:   "Data Structures and Algorithms",
	CsET:   "Emerging Technologies",
	CsFL:   "Formal Languages and Automata Theory",
	CsGL:   "General Literature",
	CsGR:   "Graphics",
	CsGT:   "Computer Science and Game Theory",
	CsHC:   "Human-Computer Interaction",
	CsIR:   "Information Retrieval",
	CsIT:   "Information Theory",
	CsLG:   "Machine Learning",
	CsLO:   "Logic in Computer Science",
	CsMA:   "Multiagent Systems",
	CsMM:   "Multimedia",
	CsMS:   "Mathematical Software",
	CsNA:   "Numerical Analysis",
	CsNE:   "Neural and Evolutionary Computing",
	CsNI:   "Networking and Internet Architecture",
	CsOH:   "Other Computer Science",
	CsOS:   "Operating Systems",
	CsPF:   "Performance",
	CsPL:   "Programming Languages",
	CsRO:   "Robotics",
	CsSC:   "Symbolic Computation",
	CsSD:   "Sound",
	CsSE:   "Software Engineering",
	CsSI:   "Social and Information Networks",
	CsSY:   "Systems and Control",
	StatML: "Machine Learning (Statistics)",
	MathOC: "Optimization and Control",
	EessAS: "Audio and Speech Processing",
	EessIV: "Image and Video Processing",
	EessSP: "Signal Processing",
	EessSY: "Systems and Control (EESS)",
}

// ParseCategory maps a wire code to a known Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Known reports whether c belongs to the closed set.
func (c Category) Known() bool {
	_, ok := categoryNames[c]
	return ok
}

// Description returns the human-readable name, or "" for unknown codes.
func (c Category) Description() string { return categoryNames[c] }

func (c Category) String() string { return string(c) }

// KnownCategories returns the closed set sorted by code.
func KnownCategories() []Category {
	out := make([]Category, 0, len(categoryNames))
	for c := range categoryNames {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
