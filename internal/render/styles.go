package render

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"azure-graph/internal/snapshot"
)

// Style is the visual metadata attached to a node, keyed by resource type.
type Style struct {
	Display string `yaml:"display"` // Human-readable type name
	Shape   string `yaml:"shape"`   // box, rounded, circle, stadium, cylinder, hexagon, rhombus
	Color   string `yaml:"color"`   // Fill color, #RRGGBB
}

// StyleTable maps resource types to their styles. Unknown types resolve to
// Default so rendering never fails on an unrecognized type.
type StyleTable struct {
	Types   map[string]Style `yaml:"types"`
	Default Style            `yaml:"default"`
}

// For returns the style for a resource type, falling back to the default.
// The default's display name is derived from the type's last path segment.
func (t *StyleTable) For(resourceType string) Style {
	if s, ok := t.Types[strings.ToLower(resourceType)]; ok {
		return s
	}
	s := t.Default
	short := resourceType
	if i := strings.LastIndex(short, "/"); i >= 0 {
		short = short[i+1:]
	}
	if short != "" {
		s.Display = strings.ToUpper(short[:1]) + short[1:]
	}
	return s
}

// DisplayName returns the kind-sensitive display name for a resource, e.g.
// a microsoft.web/sites of kind functionapp renders as "Function App".
func (t *StyleTable) DisplayName(r *snapshot.Resource) string {
	base := t.For(r.Type).Display
	kind := strings.ToLower(r.Kind)
	if kind == "" {
		return base
	}
	switch r.Type {
	case "microsoft.web/sites":
		switch {
		case strings.Contains(kind, "functionapp"):
			return "Function App"
		case strings.Contains(kind, "api"):
			return "API App"
		case strings.Contains(kind, "container"):
			return "Container Web App"
		case strings.Contains(kind, "linux"):
			return "Linux Web App"
		}
	case "microsoft.storage/storageaccounts":
		switch kind {
		case "blobstorage":
			return "Blob Storage"
		case "filestorage":
			return "File Storage"
		case "blockblobstorage":
			return "Block Blob Storage"
		}
		if strings.Contains(kind, "storagev2") {
			return "Storage Account v2"
		}
	case "microsoft.documentdb/databaseaccounts":
		switch kind {
		case "mongodb":
			return "Cosmos DB (MongoDB)"
		case "cassandra":
			return "Cosmos DB (Cassandra)"
		case "gremlin":
			return "Cosmos DB (Gremlin)"
		case "table":
			return "Cosmos DB (Table)"
		}
	}
	return base
}

// LoadOverrides merges a YAML style file over the table. The file may set
// the default style and add or replace per-type entries; absent fields of an
// override keep the existing value.
func (t *StyleTable) LoadOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read styles: %w", err)
	}
	var overrides StyleTable
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return fmt.Errorf("parse styles %s: %w", path, err)
	}
	if overrides.Default != (Style{}) {
		t.Default = mergeStyle(t.Default, overrides.Default)
	}
	for typ, s := range overrides.Types {
		typ = strings.ToLower(typ)
		t.Types[typ] = mergeStyle(t.Types[typ], s)
	}
	return nil
}

func mergeStyle(base, override Style) Style {
	if override.Display != "" {
		base.Display = override.Display
	}
	if override.Shape != "" {
		base.Shape = override.Shape
	}
	if override.Color != "" {
		base.Color = override.Color
	}
	return base
}

// DefaultStyles returns the built-in style table for common Azure types.
func DefaultStyles() *StyleTable {
	return &StyleTable{
		Default: Style{Display: "Resource", Shape: "box", Color: "#DDDDDD"},
		Types: map[string]Style{
			"microsoft.app/containerapps":                {Display: "Container App", Shape: "circle", Color: "#5F27CD"},
			"microsoft.app/managedenvironments":          {Display: "Container App Environment", Shape: "hexagon", Color: "#54A0FF"},
			"microsoft.web/sites":                        {Display: "Web App", Shape: "rounded", Color: "#96CEB4"},
			"microsoft.web/serverfarms":                  {Display: "App Service Plan", Shape: "stadium", Color: "#FECA57"},
			"microsoft.web/staticsites":                  {Display: "Static Site", Shape: "rounded", Color: "#1DD1A1"},
			"microsoft.containerregistry/registries":     {Display: "Container Registry", Shape: "box", Color: "#FF9FF3"},
			"microsoft.keyvault/vaults":                  {Display: "Key Vault", Shape: "box", Color: "#4ECDC4"},
			"microsoft.dbforpostgresql/flexibleservers":  {Display: "PostgreSQL", Shape: "cylinder", Color: "#45B7D1"},
			"microsoft.dbformysql/flexibleservers":       {Display: "MySQL Server", Shape: "cylinder", Color: "#10AC84"},
			"microsoft.sql/servers":                      {Display: "SQL Server", Shape: "cylinder", Color: "#2E86DE"},
			"microsoft.sql/servers/databases":            {Display: "SQL Database", Shape: "cylinder", Color: "#54A0FF"},
			"microsoft.documentdb/databaseaccounts":      {Display: "Cosmos DB", Shape: "cylinder", Color: "#341F97"},
			"microsoft.storage/storageaccounts":          {Display: "Storage Account", Shape: "cylinder", Color: "#FF6B6B"},
			"microsoft.cache/redis":                      {Display: "Redis Cache", Shape: "cylinder", Color: "#EE5253"},
			"microsoft.servicebus/namespaces":            {Display: "Service Bus", Shape: "hexagon", Color: "#A29BFE"},
			"microsoft.eventhub/namespaces":              {Display: "Event Hub", Shape: "hexagon", Color: "#6C5CE7"},
			"microsoft.eventgrid/systemtopics":           {Display: "Event Grid", Shape: "rounded", Color: "#FDCB6E"},
			"microsoft.signalrservice/webpubsub":         {Display: "Web PubSub", Shape: "rounded", Color: "#00D2D3"},
			"microsoft.signalrservice/signalr":           {Display: "SignalR Service", Shape: "rounded", Color: "#01A3A4"},
			"microsoft.insights/components":              {Display: "App Insights", Shape: "box", Color: "#FD79A8"},
			"microsoft.insights/actiongroups":            {Display: "Action Group", Shape: "box", Color: "#FF9F43"},
			"microsoft.insights/metricalerts":            {Display: "Metric Alert", Shape: "box", Color: "#EE5A24"},
			"microsoft.insights/autoscalesettings":       {Display: "Autoscale Setting", Shape: "box", Color: "#0984E3"},
			"microsoft.operationalinsights/workspaces":   {Display: "Log Analytics", Shape: "box", Color: "#B53471"},
			"microsoft.apimanagement/service":            {Display: "API Management", Shape: "rounded", Color: "#F368E0"},
			"microsoft.network/virtualnetworks":          {Display: "Virtual Network", Shape: "hexagon", Color: "#576574"},
			"microsoft.network/networksecuritygroups":    {Display: "Network Security Group", Shape: "box", Color: "#8395A7"},
			"microsoft.network/publicipaddresses":        {Display: "Public IP", Shape: "circle", Color: "#222F3E"},
			"microsoft.network/loadbalancers":            {Display: "Load Balancer", Shape: "rhombus", Color: "#3742FA"},
			"microsoft.network/applicationgateways":      {Display: "Application Gateway", Shape: "rhombus", Color: "#5352ED"},
			"microsoft.network/networkwatchers":          {Display: "Network Watcher", Shape: "box", Color: "#747D8C"},
			"microsoft.portal/dashboards":                {Display: "Dashboard", Shape: "box", Color: "#FDCB6E"},
			"microsoft.logic/workflows":                  {Display: "Logic App", Shape: "stadium", Color: "#00D2D3"},
			"microsoft.compute/virtualmachines":          {Display: "Virtual Machine", Shape: "box", Color: "#576574"},
			"microsoft.compute/virtualmachinescalesets":  {Display: "VM Scale Set", Shape: "box", Color: "#57606F"},
			"microsoft.containerservice/managedclusters": {Display: "AKS Cluster", Shape: "hexagon", Color: "#2F3542"},
		},
	}
}
