package models

import (
	"fmt"
	"strings"
)

// Top-level section keys of a ContentDocument. The renderer and the merge
// operations assume every one of these is always present.
const (
	SectionHero       = "hero"
	SectionAbout      = "about"
	SectionProjects   = "projects"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionContact    = "contact"
)

var sectionNames = []string{
	SectionHero, SectionAbout, SectionProjects,
	SectionExperience, SectionEducation, SectionContact,
}

// SectionNames returns the fixed top-level keys in render order.
func SectionNames() []string {
	out := make([]string, len(sectionNames))
	copy(out, sectionNames)
	return out
}

// ValidSection reports whether name is one of the six top-level keys.
func ValidSection(name string) bool {
	for _, s := range sectionNames {
		if s == name {
			return true
		}
	}
	return false
}

// SocialLinks uses fixed fields rather than a map so rendering stays
// deterministic.
type SocialLinks struct {
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Hero is the banner block at the top of the portfolio.
type Hero struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Bio         string      `json:"bio"`
	Image       string      `json:"image,omitempty"`
	SocialLinks SocialLinks `json:"social_links"`
}

// About is the longer self-description block.
type About struct {
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
	Image       string   `json:"image,omitempty"`
}

// Project is one portfolio project entry; order is meaningful.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack"`
	GithubURL   string   `json:"github_url,omitempty"`
	LiveURL     string   `json:"live_url,omitempty"`
	Image       string   `json:"image,omitempty"`
}

// ExperienceEntry is one role in the work history.
type ExperienceEntry struct {
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

// EducationEntry is one school/degree record.
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartYear   string `json:"start_year,omitempty"`
	EndYear     string `json:"end_year,omitempty"`
	Description string `json:"description,omitempty"`
}

// Contact holds the ways to reach the portfolio owner.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ContentDocument is the canonical portfolio content. All six sections are
// always present; empty sections are empty structures, never missing keys.
type ContentDocument struct {
	Hero       Hero              `json:"hero"`
	About      About             `json:"about"`
	Projects   []Project         `json:"projects"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Contact    Contact           `json:"contact"`
}

// DefaultContentDocument returns the minimal valid document: every section
// present with its empty default shape.
func DefaultContentDocument() ContentDocument {
	var d ContentDocument
	d.ApplyDefaults()
	return d
}

// ApplyDefaults normalizes the document in place so that no slice is nil.
// The renderer and the JSON edge rely on this holding before use.
func (d *ContentDocument) ApplyDefaults() {
	if d.About.Highlights == nil {
		d.About.Highlights = []string{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	for i := range d.Projects {
		if d.Projects[i].TechStack == nil {
			d.Projects[i].TechStack = []string{}
		}
	}
	if d.Experience == nil {
		d.Experience = []ExperienceEntry{}
	}
	for i := range d.Experience {
		if d.Experience[i].Highlights == nil {
			d.Experience[i].Highlights = []string{}
		}
	}
	if d.Education == nil {
		d.Education = []EducationEntry{}
	}
}

// IsEmpty reports whether the document carries no usable content at all.
func (d *ContentDocument) IsEmpty() bool {
	return heroEmpty(d.Hero) &&
		aboutEmpty(d.About) &&
		len(d.Projects) == 0 &&
		len(d.Experience) == 0 &&
		len(d.Education) == 0 &&
		contactEmpty(d.Contact)
}

// Clone returns a deep copy, used for iteration snapshots.
func (d ContentDocument) Clone() ContentDocument {
	out := d
	out.About.Highlights = append([]string(nil), d.About.Highlights...)
	out.Projects = append([]Project(nil), d.Projects...)
	for i := range out.Projects {
		out.Projects[i].TechStack = append([]string(nil), d.Projects[i].TechStack...)
	}
	out.Experience = append([]ExperienceEntry(nil), d.Experience...)
	for i := range out.Experience {
		out.Experience[i].Highlights = append([]string(nil), d.Experience[i].Highlights...)
	}
	out.Education = append([]EducationEntry(nil), d.Education...)
	out.ApplyDefaults()
	return out
}

// Merge lays next over old: scalar fields from next win when non-empty, old
// fills the gaps. Array-valued sections are replaced atomically when next has
// any entries, otherwise the old entries survive unchanged.
func Merge(old, next ContentDocument) ContentDocument {
	out := DefaultContentDocument()

	out.Hero = Hero{
		Name:  pick(next.Hero.Name, old.Hero.Name),
		Title: pick(next.Hero.Title, old.Hero.Title),
		Bio:   pick(next.Hero.Bio, old.Hero.Bio),
		Image: pick(next.Hero.Image, old.Hero.Image),
		SocialLinks: SocialLinks{
			GitHub:   pick(next.Hero.SocialLinks.GitHub, old.Hero.SocialLinks.GitHub),
			LinkedIn: pick(next.Hero.SocialLinks.LinkedIn, old.Hero.SocialLinks.LinkedIn),
			Twitter:  pick(next.Hero.SocialLinks.Twitter, old.Hero.SocialLinks.Twitter),
			Website:  pick(next.Hero.SocialLinks.Website, old.Hero.SocialLinks.Website),
		},
	}

	out.About = About{
		Description: pick(next.About.Description, old.About.Description),
		Image:       pick(next.About.Image, old.About.Image),
		Highlights:  pickSlice(next.About.Highlights, old.About.Highlights),
	}

	if len(next.Projects) > 0 {
		out.Projects = next.Projects
	} else {
		out.Projects = old.Projects
	}
	if len(next.Experience) > 0 {
		out.Experience = next.Experience
	} else {
		out.Experience = old.Experience
	}
	if len(next.Education) > 0 {
		out.Education = next.Education
	} else {
		out.Education = old.Education
	}

	out.Contact = Contact{
		Email:    pick(next.Contact.Email, old.Contact.Email),
		Phone:    pick(next.Contact.Phone, old.Contact.Phone),
		Location: pick(next.Contact.Location, old.Contact.Location),
		Message:  pick(next.Contact.Message, old.Contact.Message),
	}

	out.ApplyDefaults()
	return out
}

// ReplaceSection overwrites exactly one top-level key with the matching
// section from src, leaving the other five untouched.
func (d *ContentDocument) ReplaceSection(section string, src ContentDocument) error {
	switch section {
	case SectionHero:
		d.Hero = src.Hero
	case SectionAbout:
		d.About = src.About
	case SectionProjects:
		d.Projects = src.Projects
	case SectionExperience:
		d.Experience = src.Experience
	case SectionEducation:
		d.Education = src.Education
	case SectionContact:
		d.Contact = src.Contact
	default:
		return fmt.Errorf("unknown section %q", section)
	}
	d.ApplyDefaults()
	return nil
}

// WrapSectionText stores raw text as the section's primary text field. This is
// the best-effort degradation path when a section-scoped model response could
// not be parsed as structured data.
func WrapSectionText(section, text string) (ContentDocument, error) {
	text = strings.TrimSpace(text)
	doc := DefaultContentDocument()
	switch section {
	case SectionHero:
		doc.Hero.Bio = text
	case SectionAbout:
		doc.About.Description = text
	case SectionProjects:
		doc.Projects = []Project{{Description: text, TechStack: []string{}}}
	case SectionExperience:
		doc.Experience = []ExperienceEntry{{Description: text, Highlights: []string{}}}
	case SectionEducation:
		doc.Education = []EducationEntry{{Description: text}}
	case SectionContact:
		doc.Contact.Message = text
	default:
		return doc, fmt.Errorf("unknown section %q", section)
	}
	return doc, nil
}

func heroEmpty(h Hero) bool {
	return h.Name == "" && h.Title == "" && h.Bio == ""
}

func aboutEmpty(a About) bool {
	return a.Description == "" && len(a.Highlights) == 0
}

func contactEmpty(c Contact) bool {
	return c.Email == "" && c.Phone == "" && c.Location == "" && c.Message == ""
}

func pick(next, old string) string {
	if strings.TrimSpace(next) != "" {
		return next
	}
	return old
}

func pickSlice(next, old []string) []string {
	if len(next) > 0 {
		return next
	}
	return old
}
