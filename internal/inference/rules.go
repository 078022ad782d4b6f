package inference

import (
	"encoding/json"
	"strings"

	"azure-graph/internal/snapshot"
)

// Azure resource types with dedicated rules.
const (
	TypeContainerApp       = "microsoft.app/containerapps"
	TypeManagedEnvironment = "microsoft.app/managedenvironments"
	TypeWebSite            = "microsoft.web/sites"
	TypeServerFarm         = "microsoft.web/serverfarms"
	TypeContainerRegistry  = "microsoft.containerregistry/registries"
	TypeMetricAlert        = "microsoft.insights/metricalerts"
	TypeAutoscaleSetting   = "microsoft.insights/autoscalesettings"
	TypeInsightsComponent  = "microsoft.insights/components"
	TypeVirtualMachine     = "microsoft.compute/virtualmachines"
	TypeStorageAccount     = "microsoft.storage/storageaccounts"
	TypeVirtualNetwork     = "microsoft.network/virtualnetworks"
	TypeKeyVault           = "microsoft.keyvault/vaults"
	TypePostgresFlexible   = "microsoft.dbforpostgresql/flexibleservers"
	TypeSQLServer          = "microsoft.sql/servers"
	TypeCosmosAccount      = "microsoft.documentdb/databaseaccounts"
	TypeServiceBus         = "microsoft.servicebus/namespaces"
	TypeEventHub           = "microsoft.eventhub/namespaces"
	TypeRedisCache         = "microsoft.cache/redis"
	TypeDashboard          = "microsoft.portal/dashboards"
	TypeAPIManagement      = "microsoft.apimanagement/service"
)

// reference is one target a type rule extracted from a resource.
type reference struct {
	target string
	rule   string
}

// ruleFunc extracts direct dependency targets from one resource's detail
// bags. Rules are pure and total: malformed or missing fields yield no
// references, never an error.
type ruleFunc func(r *snapshot.Resource, ix *index) []reference

func builtinTypeRules() map[string]ruleFunc {
	return map[string]ruleFunc{
		TypeContainerApp:     containerAppRule,
		TypeWebSite:          webSiteRule,
		TypeMetricAlert:      metricAlertRule,
		TypeAutoscaleSetting: autoscaleRule,
		TypeVirtualMachine:   virtualMachineRule,
		TypeStorageAccount:   storageAccountRule,
	}
}

// containerAppRule: container apps declare their managed environment by ID
// and their image registries by login-server hostname.
func containerAppRule(r *snapshot.Resource, ix *index) []reference {
	var refs []reference
	if env := stringField(r.Properties, "managedEnvironmentId"); env != "" {
		refs = append(refs, reference{target: env, rule: "managed-environment"})
	}
	config := mapField(r.Properties, "configuration")
	for _, entry := range sliceField(config, "registries") {
		reg, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		server := stringField(reg, "server")
		if server == "" {
			continue
		}
		// Resolve the login server against registries in the local snapshot;
		// no live lookups, unresolvable servers yield no edge.
		for _, acr := range ix.byType[TypeContainerRegistry] {
			login := stringField(acr.Properties, "loginServer")
			if (login != "" && login == server) || strings.HasPrefix(server, acr.Name+".") {
				refs = append(refs, reference{target: acr.ID, rule: "registry-endpoint"})
			}
		}
	}
	return refs
}

// webSiteRule: web apps reference their hosting plan by ID and often carry an
// Application Insights connection string in site config.
func webSiteRule(r *snapshot.Resource, ix *index) []reference {
	var refs []reference
	if farm := stringField(r.Properties, "serverFarmId"); farm != "" {
		refs = append(refs, reference{target: farm, rule: "server-farm"})
	}
	siteConfig := mapField(r.Properties, "siteConfig")
	for _, entry := range sliceField(siteConfig, "appSettings") {
		setting, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if stringField(setting, "name") != "APPLICATIONINSIGHTS_CONNECTION_STRING" {
			continue
		}
		value := stringField(setting, "value")
		if value == "" {
			continue
		}
		for _, ai := range ix.byType[TypeInsightsComponent] {
			if len(ai.Name) >= minNameMatchLen && strings.Contains(value, ai.Name) {
				refs = append(refs, reference{target: ai.ID, rule: "insights-connection"})
			}
		}
	}
	return refs
}

// metricAlertRule: alerts list the monitored resources under scopes.
func metricAlertRule(r *snapshot.Resource, _ *index) []reference {
	var refs []reference
	for _, entry := range sliceField(r.Properties, "scopes") {
		if scope, ok := entry.(string); ok && scope != "" {
			refs = append(refs, reference{target: scope, rule: "alert-scope"})
		}
	}
	return refs
}

// autoscaleRule: autoscale settings target one resource directly and may
// reference others from metric triggers.
func autoscaleRule(r *snapshot.Resource, _ *index) []reference {
	var refs []reference
	if target := stringField(r.Properties, "targetResourceUri"); target != "" {
		refs = append(refs, reference{target: target, rule: "autoscale-target"})
	}
	for _, p := range sliceField(r.Properties, "profiles") {
		profile, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, ru := range sliceField(profile, "rules") {
			rule, ok := ru.(map[string]any)
			if !ok {
				continue
			}
			trigger := mapField(rule, "metricTrigger")
			if uri := stringField(trigger, "metricResourceUri"); uri != "" {
				refs = append(refs, reference{target: uri, rule: "autoscale-target"})
			}
		}
	}
	return refs
}

// virtualMachineRule: VMs reference their network interfaces by ID.
func virtualMachineRule(r *snapshot.Resource, _ *index) []reference {
	var refs []reference
	profile := mapField(r.Properties, "networkProfile")
	for _, entry := range sliceField(profile, "networkInterfaces") {
		nic, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if id := stringField(nic, "id"); id != "" {
			refs = append(refs, reference{target: id, rule: "network-interface"})
		}
	}
	return refs
}

// storageAccountRule: network rules point at subnets; the edge goes to the
// parent virtual network present in the snapshot.
func storageAccountRule(r *snapshot.Resource, ix *index) []reference {
	var refs []reference
	ruleSet := mapField(r.Properties, "networkRuleSet")
	for _, entry := range sliceField(ruleSet, "virtualNetworkRules") {
		rule, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		subnetID := stringField(rule, "id")
		if subnetID == "" {
			continue
		}
		for _, vnet := range ix.byType[TypeVirtualNetwork] {
			if strings.HasPrefix(subnetID, vnet.ID) {
				refs = append(refs, reference{target: vnet.ID, rule: "vnet-rule"})
			}
		}
	}
	return refs
}

// pairRule describes a "commonly co-located" source/target type pairing for
// the potential-edge cross product.
type pairRule struct {
	sourceTypes []string
	targetTypes []string
}

func builtinPairRules() []pairRule {
	return []pairRule{
		{
			sourceTypes: []string{TypeWebSite, TypeContainerApp},
			targetTypes: []string{
				TypePostgresFlexible,
				TypeSQLServer,
				TypeCosmosAccount,
				TypeStorageAccount,
				TypeKeyVault,
				TypeServiceBus,
				TypeEventHub,
				TypeRedisCache,
				TypeInsightsComponent,
			},
		},
		{
			sourceTypes: []string{TypeDashboard, TypeManagedEnvironment, TypeAPIManagement},
			targetTypes: []string{TypeInsightsComponent},
		},
	}
}

// marshalBag serializes a detail bag for substring scanning. Returns "" when
// the bag does not serialize.
func marshalBag(bag map[string]any) string {
	raw, err := json.Marshal(bag)
	if err != nil {
		return ""
	}
	return string(raw)
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func sliceField(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	s, _ := m[key].([]any)
	return s
}

func mapField(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]any)
	return v
}
