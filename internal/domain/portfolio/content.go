// Package portfolio holds the static copy rendered on the portfolio page.
package portfolio

// SkillCategory is one card in the skills grid.
type SkillCategory struct {
	Title string
	Items []string
}

// Project is one card in the projects grid.
type Project struct {
	Title       string
	Summary     string
	ImageURL    string
	FallbackURL string
	Alt         string
}

// SocialLink is an inert footer link.
type SocialLink struct {
	Label string
	Href  string
}

// Page is everything the portfolio template renders besides the session badge.
type Page struct {
	OwnerName string
	Tagline   string
	About     []string
	Skills    []SkillCategory
	Projects  []Project
	Contact   string
	Social    []SocialLink
}

const imageFallbackURL = "https://placehold.co/400x250/E0F2F7/2C5282?text=Image+Load+Error"

// DefaultPage returns the page copy with the given owner name and tagline.
func DefaultPage(ownerName, tagline string) Page {
	return Page{
		OwnerName: ownerName,
		Tagline:   tagline,
		About: []string{
			"I am a highly professional and experienced IT Architect with a proven track record of designing, " +
				"implementing, and optimizing robust technology solutions. My career has been defined by a commitment to " +
				"driving innovation and delivering tangible business value through strategic IT initiatives.",
			"With a deep understanding of enterprise architecture, cloud computing, cybersecurity, and data management, " +
				"I excel at translating complex technical requirements into scalable and efficient systems. I am passionate " +
				"about leveraging cutting-edge technologies to solve real-world problems and empower organizations to achieve " +
				"their strategic objectives.",
		},
		Skills: []SkillCategory{
			{Title: "Cloud Platforms", Items: []string{"AWS (EC2, S3, Lambda, RDS)", "Azure (VMs, Azure Functions, Cosmos DB)", "Google Cloud Platform (GCP)"}},
			{Title: "Programming & Scripting", Items: []string{"Python", "JavaScript (Node.js, React)", "Bash/Shell Scripting", "SQL"}},
			{Title: "DevOps & CI/CD", Items: []string{"Docker, Kubernetes", "Jenkins, GitLab CI/CD", "Terraform, Ansible"}},
			{Title: "Databases", Items: []string{"PostgreSQL, MySQL", "MongoDB, Cassandra", "Redis"}},
			{Title: "Networking & Security", Items: []string{"TCP/IP, DNS, VPN", "Firewalls, IDS/IPS", "Identity and Access Management (IAM)"}},
			{Title: "Methodologies", Items: []string{"Agile, Scrum", "ITIL", "Enterprise Architecture Frameworks (e.g., TOGAF)"}},
		},
		Projects: []Project{
			{
				Title: "Cloud Migration Strategy",
				Summary: "Led the strategic planning and execution of a large-scale cloud migration for a financial services client, " +
					"resulting in a 30% reduction in infrastructure costs and improved scalability.",
				ImageURL:    "https://placehold.co/400x250/E0F2F7/2C5282?text=Project+Image+1",
				FallbackURL: imageFallbackURL,
				Alt:         "Project 1",
			},
			{
				Title: "Automated CI/CD Pipeline",
				Summary: "Designed and implemented a fully automated CI/CD pipeline using Jenkins, Docker, and Kubernetes, " +
					"reducing deployment times by 75% and improving release reliability.",
				ImageURL:    "https://placehold.co/400x250/E0F2F7/2C5282?text=Project+Image+2",
				FallbackURL: imageFallbackURL,
				Alt:         "Project 2",
			},
			{
				Title: "Enterprise Security Architecture",
				Summary: "Developed and enforced enterprise-wide security policies and architectures, integrating advanced threat " +
					"detection systems and ensuring compliance with industry standards.",
				ImageURL:    "https://placehold.co/400x250/E0F2F7/2C5282?text=Project+Image+3",
				FallbackURL: imageFallbackURL,
				Alt:         "Project 3",
			},
		},
		Contact: "I'm always open to discussing new projects, collaboration opportunities, or potential roles. Feel free to reach out!",
		Social: []SocialLink{
			{Label: "LinkedIn", Href: "#"},
			{Label: "GitHub", Href: "#"},
		},
	}
}
