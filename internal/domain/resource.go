package domain

// Resource is one entry in the learning-resources directory.
type Resource struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Link        string `yaml:"link" json:"link"`
	Type        string `yaml:"type" json:"type"`
	Icon        string `yaml:"icon" json:"icon"`
}

// ResourceCategory groups resources under a heading.
type ResourceCategory struct {
	Title     string     `yaml:"title" json:"title"`
	Resources []Resource `yaml:"resources" json:"resources"`
}

// ResourceDirectory is the whole learning hub.
type ResourceDirectory struct {
	Title      string             `yaml:"title" json:"title"`
	Subtitle   string             `yaml:"subtitle" json:"subtitle"`
	Categories []ResourceCategory `yaml:"categories" json:"categories"`
}
