package persona

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// Name identifies a persona profile.
type Name string

const (
	CalmMentor     Name = "calm_mentor"
	WittyFriend    Name = "witty_friend"
	TherapistStyle Name = "therapist_style"

	// Default is returned for any unknown name.
	Default = CalmMentor
)

// Profile is a named style.
type Profile struct {
	Name             Name     `yaml:"name" json:"-"`
	StyleDescription string   `yaml:"style_description" json:"style_description"`
	Do               []string `yaml:"do" json:"do"`
	Dont             []string `yaml:"dont" json:"dont"`
}

//go:embed personas.yaml
var personasYAML []byte

var (
	loadOnce sync.Once
	profiles []Profile
)

func table() []Profile {
	loadOnce.Do(func() {
		var doc struct {
			Personas []Profile `yaml:"personas"`
		}
		if err := yaml.Unmarshal(personasYAML, &doc); err != nil {
			panic(fmt.Sprintf("persona: decode personas.yaml: %v", err))
		}
		for _, want := range []Name{CalmMentor, WittyFriend, TherapistStyle} {
			if !slices.ContainsFunc(doc.Personas, func(p Profile) bool { return p.Name == want }) {
				panic(fmt.Sprintf("persona: personas.yaml is missing %s", want))
			}
		}
		profiles = doc.Personas
	})
	return profiles
}

// Resolve returns the profile for name and whether name was known. Unknown
// names yield the Default profile.
func Resolve(name string) (Profile, bool) {
	ps := table()
	if i := slices.IndexFunc(ps, func(p Profile) bool { return string(p.Name) == name }); i >= 0 {
		return clone(ps[i]), true
	}
	i := slices.IndexFunc(ps, func(p Profile) bool { return p.Name == Default })
	return clone(ps[i]), false
}

// Lookup is Resolve without the known flag.
func Lookup(name string) Profile {
	p, _ := Resolve(name)
	return p
}

// Names lists every persona in table order.
func Names() []Name {
	ps := table()
	out := make([]Name, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func clone(p Profile) Profile {
	p.Do = slices.Clone(p.Do)
	p.Dont = slices.Clone(p.Dont)
	return p
}
