// Where: internal/domain/stack/stack.go
// What: Immutable stack configuration types.
// Why: Pass per-environment tables as explicit values instead of package-level maps.
package stack

import (
	"github.com/poruru-code/stackplan/internal/domain/capacity"
	"github.com/poruru-code/stackplan/internal/domain/infrastate"
)

// Stack is the full static configuration: the service catalog shared by
// every environment plus the per-environment tables.
type Stack struct {
	Project      string              `yaml:"project" json:"project" validate:"required"`
	RootDomain   string              `yaml:"root_domain" json:"root_domain" validate:"required,fqdn"`
	Services     []ServiceSpec       `yaml:"services" json:"services" validate:"required,min=1,dive"`
	Environments []EnvironmentConfig `yaml:"environments" json:"environments" validate:"required,min=1,dive"`
	Redirects    []Redirect          `yaml:"redirects,omitempty" json:"redirects,omitempty" validate:"dive"`
	Websites     []Website           `yaml:"websites,omitempty" json:"websites,omitempty" validate:"dive"`
}

// ServiceSpec declares one logical service. Services are listed in
// security-group construction order.
type ServiceSpec struct {
	Name           string                  `yaml:"name" json:"name" validate:"required"`
	Class          infrastate.ServiceClass `yaml:"class" json:"class" validate:"required"`
	Port           int                     `yaml:"port,omitempty" json:"port,omitempty" validate:"gte=0,lte=65535"`
	PublicPorts    []int                   `yaml:"public_ports,omitempty" json:"public_ports,omitempty" validate:"dive,gte=1,lte=65535"`
	AllowedCallers []string                `yaml:"allowed_callers,omitempty" json:"allowed_callers,omitempty"`
	// Compute marks container workloads that need per-environment sizing.
	Compute        bool         `yaml:"compute,omitempty" json:"compute,omitempty"`
	ServiceConnect string       `yaml:"service_connect,omitempty" json:"service_connect,omitempty"`
	Expose         *Exposure    `yaml:"expose,omitempty" json:"expose,omitempty"`
	Autoscaling    *Autoscaling `yaml:"autoscaling,omitempty" json:"autoscaling,omitempty"`
}

// Exposure routes a host on the HTTPS listener to the service.
type Exposure struct {
	Subdomain       string `yaml:"subdomain" json:"subdomain" validate:"required"`
	Priority        int    `yaml:"priority" json:"priority" validate:"gte=1,lte=50000"`
	TargetPort      int    `yaml:"target_port" json:"target_port" validate:"gte=1,lte=65535"`
	HealthCheckPath string `yaml:"health_check_path" json:"health_check_path" validate:"required,startswith=/"`
}

// Autoscaling metrics.
const (
	MetricCPU    = "cpu"
	MetricMemory = "memory"
)

// Autoscaling is a target-tracking policy. The minimum is always the
// configured desired count.
type Autoscaling struct {
	Metric           string `yaml:"metric" json:"metric" validate:"oneof=cpu memory"`
	TargetValue      int    `yaml:"target_value" json:"target_value" validate:"gte=1,lte=100"`
	MaxCount         int    `yaml:"max_count" json:"max_count" validate:"gte=1"`
	ScaleInCooldown  int    `yaml:"scale_in_cooldown,omitempty" json:"scale_in_cooldown,omitempty" validate:"gte=0"`
	ScaleOutCooldown int    `yaml:"scale_out_cooldown,omitempty" json:"scale_out_cooldown,omitempty" validate:"gte=0"`
}

// EnvironmentConfig is the static table for one environment.
type EnvironmentConfig struct {
	Name      string                   `yaml:"name" json:"name" validate:"required"`
	StackID   string                   `yaml:"stack_id" json:"stack_id" validate:"required"`
	Region    string                   `yaml:"region" json:"region" validate:"required"`
	Subdomain string                   `yaml:"subdomain,omitempty" json:"subdomain,omitempty"`
	Database  DatabaseConfig           `yaml:"database" json:"database"`
	Services  map[string]ServiceConfig `yaml:"services" json:"services" validate:"dive"`
}

// DeactivationMode selects what happens to the database instance when the
// infra state turns the database off.
type DeactivationMode string

const (
	// DeactivationKeep leaves the instance available.
	DeactivationKeep DeactivationMode = "keep"
	// DeactivationStop stops the instance in place.
	DeactivationStop DeactivationMode = "stop"
)

// DatabaseConfig holds the relational database settings.
type DatabaseConfig struct {
	Replication         bool             `yaml:"replication" json:"replication"`
	BackupRetentionDays int              `yaml:"backup_retention_days" json:"backup_retention_days" validate:"gte=0,lte=35"`
	Deactivation        DeactivationMode `yaml:"deactivation,omitempty" json:"deactivation,omitempty" validate:"omitempty,oneof=keep stop"`
}

// ServiceConfig sizes one compute service in one environment.
type ServiceConfig struct {
	DesiredCount int                     `yaml:"desired_count" json:"desired_count" validate:"gte=0"`
	CPU          int                     `yaml:"cpu,omitempty" json:"cpu,omitempty" validate:"gte=0"`
	Memory       int                     `yaml:"memory,omitempty" json:"memory,omitempty" validate:"gte=0"`
	Spot         capacity.SpotPreference `yaml:"spot" json:"spot" validate:"required"`
}

// Redirect is a host redirect rule on the HTTPS listener. An empty Target
// redirects to the environment apex.
type Redirect struct {
	Name       string `yaml:"name" json:"name" validate:"required"`
	Origin     string `yaml:"origin" json:"origin" validate:"required"`
	Target     string `yaml:"target,omitempty" json:"target,omitempty"`
	Path       string `yaml:"path" json:"path" validate:"required,startswith=/"`
	Query      string `yaml:"query,omitempty" json:"query,omitempty"`
	StatusCode int    `yaml:"status_code" json:"status_code" validate:"oneof=301 302"`
	Priority   int    `yaml:"priority" json:"priority" validate:"gte=1,lte=50000"`
}

// Website is a static site behind the CDN. An empty Subdomain serves the apex.
type Website struct {
	Name      string `yaml:"name" json:"name" validate:"required"`
	Subdomain string `yaml:"subdomain,omitempty" json:"subdomain,omitempty"`
}

// MaintenanceSite is the website that hosts the maintenance page.
const MaintenanceSite = "maintenance"

// Environment returns the table for name.
func (s Stack) Environment(name string) (EnvironmentConfig, bool) {
	for _, env := range s.Environments {
		if env.Name == name {
			return env, true
		}
	}
	return EnvironmentConfig{}, false
}

// EnvironmentNames lists environments in declaration order.
func (s Stack) EnvironmentNames() []string {
	out := make([]string, 0, len(s.Environments))
	for _, env := range s.Environments {
		out = append(out, env.Name)
	}
	return out
}

// Service returns the catalog entry for name.
func (s Stack) Service(name string) (ServiceSpec, bool) {
	for _, svc := range s.Services {
		if svc.Name == name {
			return svc, true
		}
	}
	return ServiceSpec{}, false
}

// Service returns the sizing for a service in this environment.
func (e EnvironmentConfig) Service(name string) (ServiceConfig, bool) {
	cfg, ok := e.Services[name]
	return cfg, ok
}

// DeactivationMode returns the configured mode, defaulting to keep.
func (d DatabaseConfig) DeactivationMode() DeactivationMode {
	if d.Deactivation == "" {
		return DeactivationKeep
	}
	return d.Deactivation
}
