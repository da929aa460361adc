package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSkill(t *testing.T) {
	var u User
	assert.True(t, u.AddSkill(" Go "))
	assert.False(t, u.AddSkill("Go"))
	assert.False(t, u.AddSkill("  "))
	assert.Equal(t, []string{"Go"}, u.Skills)
}

func TestAddProject(t *testing.T) {
	var u User
	assert.True(t, u.AddProject(Project{
		Title:        " Timelium ",
		Technologies: []string{"Go", " Go", "", "MySQL"},
	}))
	assert.False(t, u.AddProject(Project{Title: "timelium"}), "titles compare case-insensitively")
	assert.False(t, u.AddProject(Project{Title: "   "}))

	assert.Len(t, u.Projects, 1)
	assert.Equal(t, "Timelium", u.Projects[0].Title)
	assert.Equal(t, []string{"Go", "MySQL"}, u.Projects[0].Technologies)
}

func TestAddExperience(t *testing.T) {
	var u User
	job := Experience{Company: "Acme", Position: "Engineer", Duration: "2021-2024"}
	assert.True(t, u.AddExperience(job))
	assert.False(t, u.AddExperience(Experience{Company: " Acme ", Position: "Engineer ", Duration: "2021-2024"}))
	assert.True(t, u.AddExperience(Experience{Company: "Acme", Position: "Lead", Duration: "2024-"}))
	assert.False(t, u.AddExperience(Experience{Company: "Acme"}))
	assert.Len(t, u.Experience, 2)
}

func TestAddEducation(t *testing.T) {
	var u User
	deg := Education{Institution: "BUET", Degree: "BSc", Field: "CSE", Year: "2019"}
	assert.True(t, u.AddEducation(deg))
	assert.False(t, u.AddEducation(deg))
	assert.True(t, u.AddEducation(Education{Institution: "BUET", Degree: "MSc", Field: "CSE", Year: "2021"}))
	assert.False(t, u.AddEducation(Education{Degree: "PhD"}))
	assert.Len(t, u.Education, 2)
}

func TestSetLinksAndHireMe(t *testing.T) {
	var u User
	u.SetLinks(Links{GitHub: " https://github.com/x "})
	u.SetHireMe(HireMe{ContactEmail: " me@example.com "})
	assert.Equal(t, "https://github.com/x", u.Links.GitHub)
	assert.Empty(t, u.Links.LinkedIn)
	assert.Equal(t, "me@example.com", u.HireMe.ContactEmail)
}
