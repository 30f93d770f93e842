package launcher

import (
	"github.com/go-ports/catalog-launcher/internal/catalog"
)

// Plan describes what Run would do, for dry runs.
type Plan struct {
	Catalog    string      `yaml:"catalog"`
	CatalogDir string      `yaml:"catalog_dir"`
	ProjectDir string      `yaml:"project_dir"`
	Stages     []PlanStage `yaml:"stages"`
}

// PlanStage is one stage of a Plan.
type PlanStage struct {
	Name      string            `yaml:"name"`
	Command   []string          `yaml:"command"`
	Dir       string            `yaml:"dir"`
	Env       map[string]string `yaml:"env"`
	DependsOn []string          `yaml:"depends_on,omitempty"`
}

// Plan returns the plan for lc without running anything.
func (l *Launcher) Plan(lc catalog.LaunchContext) Plan {
	stages := l.Stages(lc)
	plan := Plan{
		Catalog:    lc.CatalogName,
		CatalogDir: lc.RootDir,
		ProjectDir: lc.ProjectDir,
		Stages:     make([]PlanStage, 0, len(stages)),
	}
	for _, s := range stages {
		plan.Stages = append(plan.Stages, PlanStage{
			Name:      s.Name,
			Command:   append([]string{s.Command}, s.Args...),
			Dir:       s.Dir,
			Env:       s.Env,
			DependsOn: s.DependsOn,
		})
	}
	return plan
}
