// Where: internal/usecase/plan/records.go
// What: Desired-state records handed to resource construction.
// Why: Give the construction layer one closed snapshot per environment.
package plan

import (
	"github.com/poruru-code/stackplan/internal/domain/capacity"
	"github.com/poruru-code/stackplan/internal/domain/infrastate"
	"github.com/poruru-code/stackplan/internal/domain/maintenance"
	"github.com/poruru-code/stackplan/internal/domain/netpolicy"
)

// Plan is the full desired state for one environment.
type Plan struct {
	Environment    string                 `json:"environment" yaml:"environment"`
	StackID        string                 `json:"stack_id" yaml:"stack_id"`
	Region         string                 `json:"region" yaml:"region"`
	Domain         string                 `json:"domain" yaml:"domain"`
	InfraState     infrastate.State       `json:"infra_state" yaml:"infra_state"`
	Activation     infrastate.Activation  `json:"activation" yaml:"activation"`
	Maintenance    *maintenance.Challenge `json:"maintenance,omitempty" yaml:"maintenance,omitempty"`
	Services       []ServicePlan          `json:"services" yaml:"services"`
	Tasks          []TaskPlan             `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	Database       *DatabasePlan          `json:"database,omitempty" yaml:"database,omitempty"`
	SecurityGroups []SecurityGroupPlan    `json:"security_groups" yaml:"security_groups"`
	Listener       ListenerPlan           `json:"listener" yaml:"listener"`
	Edge           EdgePlan               `json:"edge" yaml:"edge"`
}

// ServicePlan is the desired state of one long-running compute service.
type ServicePlan struct {
	Name            string                  `json:"name" yaml:"name"`
	Class           infrastate.ServiceClass `json:"class" yaml:"class"`
	Active          bool                    `json:"active" yaml:"active"`
	ConfiguredCount int                     `json:"configured_count" yaml:"configured_count"`
	DesiredCount    int                     `json:"desired_count" yaml:"desired_count"`
	CPU             int                     `json:"cpu,omitempty" yaml:"cpu,omitempty"`
	Memory          int                     `json:"memory,omitempty" yaml:"memory,omitempty"`
	Spot            capacity.SpotPreference `json:"spot" yaml:"spot"`
	Capacity        capacity.Strategy       `json:"capacity" yaml:"capacity"`
	SecurityGroup   string                  `json:"security_group" yaml:"security_group"`
	ServiceConnect  *ServiceConnectPlan     `json:"service_connect,omitempty" yaml:"service_connect,omitempty"`
	LoadBalancer    *TargetPlan             `json:"load_balancer,omitempty" yaml:"load_balancer,omitempty"`
	Autoscaling     *AutoscalingPlan        `json:"autoscaling,omitempty" yaml:"autoscaling,omitempty"`
}

// ServiceConnectPlan exposes a service inside the cluster namespace.
type ServiceConnectPlan struct {
	Alias string `json:"alias" yaml:"alias"`
	Port  int    `json:"port" yaml:"port"`
}

// TargetPlan routes a listener host to the service.
type TargetPlan struct {
	Host            string `json:"host" yaml:"host"`
	Priority        int    `json:"priority" yaml:"priority"`
	TargetPort      int    `json:"target_port" yaml:"target_port"`
	ContainerPort   int    `json:"container_port" yaml:"container_port"`
	HealthCheckPath string `json:"health_check_path" yaml:"health_check_path"`
}

// AutoscalingPlan is the target-tracking policy with resolved bounds.
type AutoscalingPlan struct {
	Metric           string `json:"metric" yaml:"metric"`
	TargetValue      int    `json:"target_value" yaml:"target_value"`
	MinCount         int    `json:"min_count" yaml:"min_count"`
	MaxCount         int    `json:"max_count" yaml:"max_count"`
	ScaleInCooldown  int    `json:"scale_in_cooldown,omitempty" yaml:"scale_in_cooldown,omitempty"`
	ScaleOutCooldown int    `json:"scale_out_cooldown,omitempty" yaml:"scale_out_cooldown,omitempty"`
}

// TaskPlan is a one-off task such as the database migration.
type TaskPlan struct {
	Name          string `json:"name" yaml:"name"`
	Run           bool   `json:"run" yaml:"run"`
	Count         int    `json:"count" yaml:"count"`
	CPU           int    `json:"cpu,omitempty" yaml:"cpu,omitempty"`
	Memory        int    `json:"memory,omitempty" yaml:"memory,omitempty"`
	SecurityGroup string `json:"security_group" yaml:"security_group"`
}

// Database instance actions.
const (
	InstanceAvailable = "available"
	InstanceRetain    = "retain"
	InstanceStop      = "stop"
)

// DatabasePlan is the desired state of the relational database.
type DatabasePlan struct {
	Name                string `json:"name" yaml:"name"`
	Active              bool   `json:"active" yaml:"active"`
	Replication         bool   `json:"replication" yaml:"replication"`
	BackupRetentionDays int    `json:"backup_retention_days" yaml:"backup_retention_days"`
	Deactivation        string `json:"deactivation" yaml:"deactivation"`
	InstanceAction      string `json:"instance_action" yaml:"instance_action"`
	SecurityGroup       string `json:"security_group" yaml:"security_group"`
}

// SecurityGroupPlan is one network-policy object with its rules.
type SecurityGroupPlan struct {
	Name    string                  `json:"name" yaml:"name"`
	Service string                  `json:"service" yaml:"service"`
	Ingress []netpolicy.IngressRule `json:"ingress,omitempty" yaml:"ingress,omitempty"`
	Egress  []netpolicy.EgressRule  `json:"egress" yaml:"egress"`
}

// Listener rule actions.
const (
	ActionForward  = "forward"
	ActionRedirect = "redirect"
)

// ListenerPlan is the HTTPS listener: a maintenance default plus ordered rules.
type ListenerPlan struct {
	DefaultRedirect RedirectAction `json:"default_redirect" yaml:"default_redirect"`
	Rules           []ListenerRule `json:"rules" yaml:"rules"`
}

// ListenerRule matches a host (and the maintenance header while gated).
type ListenerRule struct {
	Name       string                      `json:"name" yaml:"name"`
	Priority   int                         `json:"priority" yaml:"priority"`
	Host       string                      `json:"host" yaml:"host"`
	Action     string                      `json:"action" yaml:"action"`
	Service    string                      `json:"service,omitempty" yaml:"service,omitempty"`
	Redirect   *RedirectAction             `json:"redirect,omitempty" yaml:"redirect,omitempty"`
	Conditions []maintenance.RuleCondition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// RedirectAction is a listener redirect target.
type RedirectAction struct {
	Host       string `json:"host" yaml:"host"`
	Path       string `json:"path,omitempty" yaml:"path,omitempty"`
	Query      string `json:"query,omitempty" yaml:"query,omitempty"`
	StatusCode int    `json:"status_code" yaml:"status_code"`
}

// EdgePlan is the CDN layer: the maintenance function and the distributions using it.
type EdgePlan struct {
	RedirectHost  string                   `json:"redirect_host" yaml:"redirect_host"`
	Function      maintenance.EdgeFunction `json:"function" yaml:"function"`
	Distributions []DistributionPlan       `json:"distributions,omitempty" yaml:"distributions,omitempty"`
}

// DistributionPlan is one static website distribution.
type DistributionPlan struct {
	Website            string `json:"website" yaml:"website"`
	Alias              string `json:"alias" yaml:"alias"`
	FunctionAssociated bool   `json:"function_associated" yaml:"function_associated"`
}

// Service returns the service plan named name.
func (p Plan) Service(name string) (ServicePlan, bool) {
	for _, svc := range p.Services {
		if svc.Name == name {
			return svc, true
		}
	}
	return ServicePlan{}, false
}

// Task returns the task plan named name.
func (p Plan) Task(name string) (TaskPlan, bool) {
	for _, task := range p.Tasks {
		if task.Name == name {
			return task, true
		}
	}
	return TaskPlan{}, false
}
