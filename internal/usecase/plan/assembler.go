// Where: internal/usecase/plan/assembler.go
// What: Deployment assembler combining activation, capacity, network policy, and maintenance.
// Why: Produce every per-service decision for an environment in one fail-fast pass.
package plan

import (
	"errors"
	"fmt"

	"github.com/poruru-code/stackplan/internal/domain/capacity"
	"github.com/poruru-code/stackplan/internal/domain/environment"
	"github.com/poruru-code/stackplan/internal/domain/infrastate"
	"github.com/poruru-code/stackplan/internal/domain/maintenance"
	"github.com/poruru-code/stackplan/internal/domain/netpolicy"
	"github.com/poruru-code/stackplan/internal/domain/stack"
	"go.uber.org/zap"
)

var (
	// ErrUnknownEnvironment reports an environment missing from the stack configuration.
	ErrUnknownEnvironment = errors.New("unknown environment")
	// ErrMissingServiceConfig reports a compute service without sizing for the environment.
	ErrMissingServiceConfig = errors.New("missing service configuration")
)

// Assembler builds plans. The zero value is usable and logs nothing.
type Assembler struct {
	Logger *zap.Logger
}

// NewAssembler returns an assembler logging through logger.
func NewAssembler(logger *zap.Logger) *Assembler {
	return &Assembler{Logger: logger}
}

// EnvironmentFor builds the descriptor for a configured environment.
func EnvironmentFor(cfg stack.Stack, name string, state infrastate.State) (environment.Environment, error) {
	envCfg, ok := cfg.Environment(name)
	if !ok {
		return environment.Environment{}, fmt.Errorf("%w: %q (configured: %v)", ErrUnknownEnvironment, name, cfg.EnvironmentNames())
	}
	return environment.New(envCfg.Name, envCfg.Region, envCfg.Subdomain, state)
}

// Assemble computes the desired state of env. Every core error is returned
// unchanged so callers can match it with errors.Is.
func (a *Assembler) Assemble(env environment.Environment, cfg stack.Stack, secrets maintenance.SecretProvider) (Plan, error) {
	logger := a.logger().With(zap.String("environment", env.Name), zap.Stringer("infra_state", env.InfraState))

	activation, err := infrastate.Resolve(env.InfraState)
	if err != nil {
		return Plan{}, err
	}
	envCfg, ok := cfg.Environment(env.Name)
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrUnknownEnvironment, env.Name)
	}
	challenge, err := maintenance.ChallengeFor(env, secrets)
	if err != nil {
		return Plan{}, err
	}
	graph, err := netpolicy.BuildGraph(cfg.Descriptors())
	if err != nil {
		return Plan{}, err
	}
	logger.Debug("resolved activation",
		zap.Bool("maintenance", activation.Maintenance),
		zap.Bool("database", activation.Database),
		zap.Bool("core", activation.CoreServices),
		zap.Bool("migration", activation.Migration),
	)

	conditions := maintenance.RuleConditions(challenge)
	out := Plan{
		Environment: env.Name,
		StackID:     envCfg.StackID,
		Region:      env.Region,
		Domain:      env.Domain(cfg.RootDomain),
		InfraState:  env.InfraState,
		Activation:  activation,
		Maintenance: challenge,
		Services:    []ServicePlan{},
	}

	for _, spec := range cfg.Services {
		group := netpolicy.GroupName(envCfg.StackID, spec.Name)
		active := activation.Allows(spec.Class)

		switch {
		case spec.Class == infrastate.ClassDatabase:
			out.Database = databasePlan(spec, envCfg.Database, active, group)
			logger.Debug("planned database", zap.String("service", spec.Name), zap.String("action", out.Database.InstanceAction))
		case !spec.Compute:
			continue
		case spec.Class == infrastate.ClassMigration:
			sizing, ok := envCfg.Service(spec.Name)
			if !ok {
				return Plan{}, fmt.Errorf("%w: %s/%s", ErrMissingServiceConfig, env.Name, spec.Name)
			}
			out.Tasks = append(out.Tasks, TaskPlan{
				Name:          spec.Name,
				Run:           active,
				Count:         sizing.DesiredCount,
				CPU:           sizing.CPU,
				Memory:        sizing.Memory,
				SecurityGroup: group,
			})
			logger.Debug("planned task", zap.String("task", spec.Name), zap.Bool("run", active))
		default:
			svc, err := servicePlan(env, cfg.RootDomain, spec, envCfg, active, group)
			if err != nil {
				return Plan{}, err
			}
			out.Services = append(out.Services, svc)
			logger.Debug("planned service",
				zap.String("service", svc.Name),
				zap.Int("desired_count", svc.DesiredCount),
				zap.Int("guaranteed", svc.Capacity.GuaranteedCapacity()),
			)
		}
	}

	out.SecurityGroups = securityGroups(graph, envCfg.StackID)
	out.Listener = listenerPlan(env, cfg, conditions)
	edge, err := edgePlan(env, cfg, challenge)
	if err != nil {
		return Plan{}, err
	}
	out.Edge = edge

	logger.Info("assembled plan",
		zap.Int("services", len(out.Services)),
		zap.Int("security_groups", len(out.SecurityGroups)),
		zap.Bool("gated", challenge != nil),
	)
	return out, nil
}

func (a *Assembler) logger() *zap.Logger {
	if a == nil || a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func servicePlan(
	env environment.Environment,
	rootDomain string,
	spec stack.ServiceSpec,
	envCfg stack.EnvironmentConfig,
	active bool,
	group string,
) (ServicePlan, error) {
	sizing, ok := envCfg.Service(spec.Name)
	if !ok {
		return ServicePlan{}, fmt.Errorf("%w: %s/%s", ErrMissingServiceConfig, env.Name, spec.Name)
	}
	// Capacity follows the configured count so an inactive service still
	// reports the split it returns with.
	strategy, err := capacity.For(sizing.Spot, sizing.DesiredCount)
	if err != nil {
		return ServicePlan{}, fmt.Errorf("%s/%s: %w", env.Name, spec.Name, err)
	}

	desired := 0
	if active {
		desired = sizing.DesiredCount
	}
	svc := ServicePlan{
		Name:            spec.Name,
		Class:           spec.Class,
		Active:          active,
		ConfiguredCount: sizing.DesiredCount,
		DesiredCount:    desired,
		CPU:             sizing.CPU,
		Memory:          sizing.Memory,
		Spot:            sizing.Spot,
		Capacity:        strategy,
		SecurityGroup:   group,
	}
	if spec.ServiceConnect != "" {
		svc.ServiceConnect = &ServiceConnectPlan{Alias: spec.ServiceConnect, Port: spec.Port}
	}
	if spec.Expose != nil {
		svc.LoadBalancer = &TargetPlan{
			Host:            env.SubdomainFor(spec.Expose.Subdomain, rootDomain),
			Priority:        spec.Expose.Priority,
			TargetPort:      spec.Expose.TargetPort,
			ContainerPort:   spec.Port,
			HealthCheckPath: spec.Expose.HealthCheckPath,
		}
	}
	if spec.Autoscaling != nil {
		scaling := &AutoscalingPlan{
			Metric:           spec.Autoscaling.Metric,
			TargetValue:      spec.Autoscaling.TargetValue,
			MinCount:         desired,
			MaxCount:         spec.Autoscaling.MaxCount,
			ScaleInCooldown:  spec.Autoscaling.ScaleInCooldown,
			ScaleOutCooldown: spec.Autoscaling.ScaleOutCooldown,
		}
		if !active {
			scaling.MaxCount = 0
		}
		svc.Autoscaling = scaling
	}
	return svc, nil
}

func databasePlan(spec stack.ServiceSpec, cfg stack.DatabaseConfig, active bool, group string) *DatabasePlan {
	mode := cfg.DeactivationMode()
	action := InstanceAvailable
	if !active {
		action = InstanceRetain
		if mode == stack.DeactivationStop {
			action = InstanceStop
		}
	}
	return &DatabasePlan{
		Name:                spec.Name,
		Active:              active,
		Replication:         cfg.Replication,
		BackupRetentionDays: cfg.BackupRetentionDays,
		Deactivation:        string(mode),
		InstanceAction:      action,
		SecurityGroup:       group,
	}
}

func securityGroups(graph *netpolicy.Graph, stackID string) []SecurityGroupPlan {
	ingress := graph.IngressRules(stackID)
	egress := graph.EgressRules(stackID)
	out := make([]SecurityGroupPlan, 0, len(graph.Nodes()))
	for _, node := range graph.Nodes() {
		group := netpolicy.GroupName(stackID, node.Name)
		plan := SecurityGroupPlan{Name: group, Service: node.Name}
		for _, rule := range ingress {
			if rule.Group == group {
				plan.Ingress = append(plan.Ingress, rule)
			}
		}
		for _, rule := range egress {
			if rule.Group == group {
				plan.Egress = append(plan.Egress, rule)
			}
		}
		out = append(out, plan)
	}
	return out
}
