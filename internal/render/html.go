package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"azure-graph/internal/inference"
)

// htmlNode is one datum handed to the embedded D3 script.
type htmlNode struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Display string `json:"display"`
	Type    string `json:"type"`
	Kind    string `json:"kind,omitempty"`
	Group   string `json:"group,omitempty"`
	Level   int    `json:"level"` // 0 subscription, 1 group, 2 resource
	Color   string `json:"color"`
}

// htmlLink is one edge datum; source/target are node indices.
type htmlLink struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Type   string `json:"type"` // contains, depends, potential
}

type htmlData struct {
	Title string
	Nodes template.JS
	Links template.JS
}

// HTML writes the self-contained interactive page: D3 v7 force layout with
// pan/zoom, hover detail, click-to-highlight neighbors, and a toggle for
// potential dependencies. Node and link data are inlined as JSON.
func HTML(g *Graph, w io.Writer) error {
	var nodes []htmlNode
	var links []htmlLink
	indices := make(map[string]int)

	subID := g.SubscriptionID
	if subID == "" {
		subID = "subscription"
	}
	indices[subID] = len(nodes)
	nodes = append(nodes, htmlNode{
		ID:      subID,
		Name:    "Subscription " + truncateSubscription(g.SubscriptionID),
		Display: "Subscription",
		Type:    "subscription",
		Level:   0,
		Color:   "#0078D4",
	})

	for _, rg := range g.Groups {
		indices[rg.ID] = len(nodes)
		nodes = append(nodes, htmlNode{
			ID:      rg.ID,
			Name:    rg.Name,
			Display: "Resource Group",
			Type:    "resourceGroup",
			Level:   1,
			Color:   "#8A8886",
		})
		links = append(links, htmlLink{Source: indices[subID], Target: indices[rg.ID], Type: "contains"})
	}

	groupIDs := make(map[string]string, len(g.Groups))
	for _, rg := range g.Groups {
		groupIDs[rg.Name] = rg.ID
	}
	for _, n := range g.Nodes {
		indices[n.ID] = len(nodes)
		nodes = append(nodes, htmlNode{
			ID:      n.ID,
			Name:    n.Name,
			Display: n.Display,
			Type:    n.Type,
			Kind:    n.Kind,
			Group:   n.Group,
			Level:   2,
			Color:   n.Style.Color,
		})
		if rgID, ok := groupIDs[n.Group]; ok {
			links = append(links, htmlLink{Source: indices[rgID], Target: indices[n.ID], Type: "contains"})
		}
	}

	for _, e := range g.Edges {
		src, okSrc := indices[e.Source]
		dst, okDst := indices[e.Target]
		if !okSrc || !okDst {
			continue
		}
		linkType := "depends"
		if e.Category == inference.CategoryPotential {
			linkType = "potential"
		}
		links = append(links, htmlLink{Source: src, Target: dst, Type: linkType})
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("marshal nodes: %w", err)
	}
	linksJSON, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("marshal links: %w", err)
	}
	data := htmlData{
		Title: "Azure Resource Graph - " + truncateSubscription(g.SubscriptionID),
		Nodes: template.JS(nodesJSON),
		Links: template.JS(linksJSON),
	}
	if err := htmlPage.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

var htmlPage = template.Must(template.New("graph").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<script src="https://d3js.org/d3.v7.min.js"></script>
<style>
  body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; overflow: hidden; background-color: #f0f0f0; }
  #graph-container { width: 100vw; height: 100vh; position: relative; }
  .links line { stroke-opacity: 0.6; }
  .links line.contains { stroke: #bbb; stroke-width: 1px; }
  .links line.depends { stroke: #d13438; stroke-width: 2px; }
  .links line.potential { stroke: #ff8c00; stroke-width: 1.5px; stroke-dasharray: 5,4; }
  .nodes circle { stroke: #fff; stroke-width: 1.5px; cursor: pointer; }
  .node-label { font-size: 11px; pointer-events: none; }
  .dimmed { opacity: 0.15; }
  .tooltip { position: absolute; background-color: white; padding: 10px; border-radius: 5px;
             box-shadow: 0 2px 4px rgba(0,0,0,0.2); pointer-events: none; opacity: 0; z-index: 100;
             max-width: 420px; font-size: 12px; word-break: break-all; }
  .controls { position: absolute; top: 10px; left: 10px; background-color: white; padding: 10px;
              border-radius: 5px; box-shadow: 0 2px 4px rgba(0,0,0,0.2); z-index: 50;
              display: flex; flex-direction: column; gap: 6px; font-size: 13px; }
  .controls button { padding: 5px 10px; cursor: pointer; background-color: #f8f8f8;
                     border: 1px solid #ddd; border-radius: 3px; }
  .controls button:hover { background-color: #e8e8e8; }
  .legend { display: flex; flex-direction: column; gap: 3px; margin-top: 4px; }
  .legend span { display: inline-flex; align-items: center; gap: 6px; }
  .swatch { display: inline-block; width: 18px; height: 3px; }
</style>
</head>
<body>
<div id="graph-container">
  <div class="controls">
    <button id="reset-zoom">Reset view</button>
    <label><input type="checkbox" id="toggle-potential" checked> Show potential dependencies</label>
    <div class="legend">
      <span><span class="swatch" style="background:#d13438"></span>confirmed dependency</span>
      <span><span class="swatch" style="background:#ff8c00"></span>potential dependency</span>
      <span><span class="swatch" style="background:#bbb"></span>containment</span>
    </div>
  </div>
  <div class="tooltip" id="tooltip"></div>
</div>
<script>
const nodes = {{.Nodes}};
const links = {{.Links}};

const width = window.innerWidth;
const height = window.innerHeight;

const svg = d3.select('#graph-container').append('svg')
  .attr('width', width)
  .attr('height', height);

const container = svg.append('g');

const zoom = d3.zoom()
  .scaleExtent([0.1, 6])
  .on('zoom', (event) => container.attr('transform', event.transform));
svg.call(zoom);

const simulation = d3.forceSimulation(nodes)
  .force('link', d3.forceLink(links).distance(d => d.type === 'contains' ? 80 : 140))
  .force('charge', d3.forceManyBody().strength(-320))
  .force('center', d3.forceCenter(width / 2, height / 2))
  .force('collide', d3.forceCollide(28));

const link = container.append('g').attr('class', 'links')
  .selectAll('line').data(links).join('line')
  .attr('class', d => d.type);

const node = container.append('g').attr('class', 'nodes')
  .selectAll('circle').data(nodes).join('circle')
  .attr('r', d => d.level === 0 ? 22 : d.level === 1 ? 16 : 10)
  .attr('fill', d => d.color)
  .call(d3.drag()
    .on('start', dragStarted)
    .on('drag', dragged)
    .on('end', dragEnded));

const label = container.append('g')
  .selectAll('text').data(nodes).join('text')
  .attr('class', 'node-label')
  .attr('dx', 14)
  .attr('dy', 4)
  .text(d => d.name);

const tooltip = d3.select('#tooltip');

node.on('mouseover', (event, d) => {
  let html = '<b>' + d.name + '</b><br>' + d.display;
  if (d.kind) html += '<br>kind: ' + d.kind;
  if (d.group) html += '<br>group: ' + d.group;
  html += '<br><small>' + d.id + '</small>';
  tooltip.html(html)
    .style('left', (event.pageX + 12) + 'px')
    .style('top', (event.pageY + 12) + 'px')
    .style('opacity', 1);
}).on('mouseout', () => tooltip.style('opacity', 0));

let selected = null;
node.on('click', (event, d) => {
  event.stopPropagation();
  if (selected === d) { clearHighlight(); return; }
  selected = d;
  const neighbors = new Set([d.index]);
  links.forEach(l => {
    if (l.source.index === d.index) neighbors.add(l.target.index);
    if (l.target.index === d.index) neighbors.add(l.source.index);
  });
  node.classed('dimmed', n => !neighbors.has(n.index));
  label.classed('dimmed', n => !neighbors.has(n.index));
  link.classed('dimmed', l => l.source.index !== d.index && l.target.index !== d.index);
});
svg.on('click', clearHighlight);

function clearHighlight() {
  selected = null;
  node.classed('dimmed', false);
  label.classed('dimmed', false);
  link.classed('dimmed', false);
}

d3.select('#toggle-potential').on('change', function() {
  const visible = this.checked;
  link.filter(l => l.type === 'potential')
    .style('display', visible ? null : 'none');
});

d3.select('#reset-zoom').on('click', () => {
  svg.transition().duration(400).call(zoom.transform, d3.zoomIdentity);
});

simulation.on('tick', () => {
  link
    .attr('x1', d => d.source.x).attr('y1', d => d.source.y)
    .attr('x2', d => d.target.x).attr('y2', d => d.target.y);
  node.attr('cx', d => d.x).attr('cy', d => d.y);
  label.attr('x', d => d.x).attr('y', d => d.y);
});

function dragStarted(event, d) {
  if (!event.active) simulation.alphaTarget(0.3).restart();
  d.fx = d.x; d.fy = d.y;
}
function dragged(event, d) {
  d.fx = event.x; d.fy = event.y;
}
function dragEnded(event, d) {
  if (!event.active) simulation.alphaTarget(0);
  d.fx = null; d.fy = null;
}
</script>
</body>
</html>
`))
