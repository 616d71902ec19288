package domain

// Profile is the static "about me" block of the portfolio.
type Profile struct {
	Name      string   `json:"name" yaml:"name"`
	Tagline   string   `json:"tagline" yaml:"tagline"`
	Location  string   `json:"location" yaml:"location"`
	Email     string   `json:"email" yaml:"email"`
	Pronouns  string   `json:"pronouns" yaml:"pronouns"`
	Education []string `json:"education" yaml:"education"`
	Languages []string `json:"languages" yaml:"languages"`
	Links     []Link   `json:"links" yaml:"links"`
}

// Link is a labelled external URL (GitHub, LinkedIn, ...).
type Link struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Project is one portfolio entry.
type Project struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Tech        string `json:"tech" yaml:"tech"`
	URL         string `json:"url,omitempty" yaml:"url"`
	Ongoing     bool   `json:"ongoing,omitempty" yaml:"ongoing"`
}

// Certificate is an issued certificate, optionally backed by a file on disk.
type Certificate struct {
	Title  string `json:"title" yaml:"title"`
	Issuer string `json:"issuer" yaml:"issuer"`
	Issued string `json:"issued" yaml:"issued"`
	File   string `json:"file,omitempty" yaml:"file"`
}

// Achievement is a dated milestone (awards, hackathon placements, honors).
type Achievement struct {
	Year  string `json:"year" yaml:"year"`
	Title string `json:"title" yaml:"title"`
}

// Organization is a club or society membership with a role.
type Organization struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
}

// Hackathon is a competition entry with a short description.
type Hackathon struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Portfolio is the full static content of the site, loaded once at startup.
type Portfolio struct {
	Profile       Profile        `json:"profile" yaml:"profile"`
	Projects      []Project      `json:"projects" yaml:"projects"`
	Certificates  []Certificate  `json:"certificates" yaml:"certificates"`
	Achievements  []Achievement  `json:"achievements" yaml:"achievements"`
	Organizations []Organization `json:"organizations" yaml:"organizations"`
	Hackathons    []Hackathon    `json:"hackathons" yaml:"hackathons"`
	FunFacts      []string       `json:"fun_facts" yaml:"fun_facts"`
}
