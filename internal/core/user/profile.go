package user

import "strings"

// Links social profile URLs; empty means not set.
type Links struct {
	LinkedIn string `json:"linkedin"`
	YouTube  string `json:"youtube"`
	GitHub   string `json:"github"`
	Facebook string `json:"facebook"`
}

// HireMe contact channels shown on the profile's hire-me card.
type HireMe struct {
	WhatsApp     string `json:"whatsapp"`
	Messenger    string `json:"messenger"`
	Telegram     string `json:"telegram"`
	ContactEmail string `json:"contactEmail"`
}

type Project struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link,omitempty"`
	Image        string   `json:"image,omitempty"`
}

type Experience struct {
	Company     string `json:"company" binding:"required"`
	Position    string `json:"position" binding:"required"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Education struct {
	Institution string `json:"institution" binding:"required"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Year        string `json:"year"`
}

func (l Links) trimmed() Links {
	return Links{
		LinkedIn: strings.TrimSpace(l.LinkedIn),
		YouTube:  strings.TrimSpace(l.YouTube),
		GitHub:   strings.TrimSpace(l.GitHub),
		Facebook: strings.TrimSpace(l.Facebook),
	}
}

func (h HireMe) trimmed() HireMe {
	return HireMe{
		WhatsApp:     strings.TrimSpace(h.WhatsApp),
		Messenger:    strings.TrimSpace(h.Messenger),
		Telegram:     strings.TrimSpace(h.Telegram),
		ContactEmail: strings.TrimSpace(h.ContactEmail),
	}
}

// SetLinks replaces all links.
func (u *User) SetLinks(l Links) { u.Links = l.trimmed() }

// SetHireMe replaces all contact channels.
func (u *User) SetHireMe(h HireMe) { u.HireMe = h.trimmed() }

// AddProject appends p unless a project with the same title (case-insensitive)
// exists. Returns false for a duplicate or an untitled project.
func (u *User) AddProject(p Project) bool {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return false
	}
	for _, existing := range u.Projects {
		if strings.EqualFold(existing.Title, p.Title) {
			return false
		}
	}
	p.Description = strings.TrimSpace(p.Description)
	p.Link = strings.TrimSpace(p.Link)
	p.Image = strings.TrimSpace(p.Image)
	p.Technologies = dedupTrimmed(p.Technologies)
	u.Projects = append(u.Projects, p)
	return true
}

// AddExperience appends e unless the same company/position/duration is listed.
func (u *User) AddExperience(e Experience) bool {
	e = Experience{
		Company:     strings.TrimSpace(e.Company),
		Position:    strings.TrimSpace(e.Position),
		Duration:    strings.TrimSpace(e.Duration),
		Description: strings.TrimSpace(e.Description),
	}
	if e.Company == "" || e.Position == "" {
		return false
	}
	for _, existing := range u.Experience {
		if existing.Company == e.Company && existing.Position == e.Position && existing.Duration == e.Duration {
			return false
		}
	}
	u.Experience = append(u.Experience, e)
	return true
}

// AddEducation appends e unless an identical entry is listed.
func (u *User) AddEducation(e Education) bool {
	e = Education{
		Institution: strings.TrimSpace(e.Institution),
		Degree:      strings.TrimSpace(e.Degree),
		Field:       strings.TrimSpace(e.Field),
		Year:        strings.TrimSpace(e.Year),
	}
	if e.Institution == "" {
		return false
	}
	for _, existing := range u.Education {
		if existing == e {
			return false
		}
	}
	u.Education = append(u.Education, e)
	return true
}

func dedupTrimmed(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
