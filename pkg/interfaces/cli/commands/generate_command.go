package commands

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
	"github.com/visualrobotics/mrp/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for dataset generation
type GenerateConfig struct {
	Items     int    // Total number of parts to generate
	MaxDepth  int    // Maximum depth of the BOM tree
	MaxStock  int    // Upper bound for raw material stock
	SubPrefix string // SKU prefix for parts that have components
	OutputDir string // Output directory for parts.csv and bom.csv
	Seed      int64  // Random seed for reproducible generation
	Verbose   bool
	Out       io.Writer
}

// GenerateCommand writes a random acyclic factory as parts.csv and bom.csv
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.SubPrefix == "" {
		config.SubPrefix = entities.DefaultSubAssemblyPrefix
	}
	if config.MaxStock <= 0 {
		config.MaxStock = 100
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}
	config.Seed = seed

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// bomNode is a part in the generated tree. Every edge goes from level L to
// level L+1, so the tree cannot contain a cycle.
type bomNode struct {
	sku      entities.SKU
	level    int
	children []bomEdge
	parents  int
}

type bomEdge struct {
	child *bomNode
	qty   entities.Quantity
}

func (n *bomNode) hasChild(child *bomNode) bool {
	for _, e := range n.children {
		if e.child == child {
			return true
		}
	}
	return false
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Items < 2 {
		return fmt.Errorf("items must be at least 2, got %d", cmd.config.Items)
	}
	if cmd.config.MaxDepth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", cmd.config.MaxDepth)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.config.Out, "🔧 Generating %d parts, max depth %d\n", cmd.config.Items, cmd.config.MaxDepth)
		fmt.Fprintf(cmd.config.Out, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.config.Out, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	nodes := cmd.generateBOMTree()
	cmd.assignSKUs(nodes)

	parts := make([]*entities.Part, 0, len(nodes))
	var lines []*entities.BOMLine
	for _, node := range nodes {
		parts = append(parts, cmd.generatePart(node))
		for _, e := range node.children {
			lines = append(lines, &entities.BOMLine{ParentSKU: node.sku, ChildSKU: e.child.sku, QtyPer: e.qty})
		}
	}

	if err := csv.WriteParts(filepath.Join(cmd.config.OutputDir, PartsFile), parts); err != nil {
		return fmt.Errorf("failed to generate parts: %w", err)
	}
	if err := csv.WriteBOM(filepath.Join(cmd.config.OutputDir, BOMFile), lines); err != nil {
		return fmt.Errorf("failed to generate BOM: %w", err)
	}

	fmt.Fprintf(cmd.config.Out, "✅ Generated %d parts and %d BOM lines in %s\n",
		len(parts), len(lines), cmd.config.OutputDir)
	return nil
}

// generateBOMTree builds the tree level by level, sharing some children
// between parents of the same level. Nodes are returned in creation order.
func (cmd *GenerateCommand) generateBOMTree() []*bomNode {
	numRoots := min(max(1, cmd.config.Items/50+cmd.rand.Intn(3)), cmd.config.Items-1)

	var nodes []*bomNode
	for i := 0; i < numRoots; i++ {
		nodes = append(nodes, &bomNode{level: 0})
	}

	currentLevel := nodes
	level := 0

	for level < cmd.config.MaxDepth && len(nodes) < cmd.config.Items {
		level++
		var nextLevel []*bomNode

		for _, parent := range currentLevel {
			// Each parent gets 2-8 children
			numChildren := 2 + cmd.rand.Intn(7)

			for c := 0; c < numChildren && len(nodes) < cmd.config.Items; c++ {
				var child *bomNode
				if cmd.rand.Float64() < 0.2 {
					if candidates := shareable(nextLevel, parent); len(candidates) > 0 {
						child = candidates[cmd.rand.Intn(len(candidates))]
					}
				}
				if child == nil {
					child = &bomNode{level: level}
					nodes = append(nodes, child)
					nextLevel = append(nextLevel, child)
				}
				cmd.link(parent, child)
			}
		}

		if len(nextLevel) == 0 {
			break
		}
		currentLevel = nextLevel
	}

	// Remaining parts hang off any node above the depth limit
	var parents []*bomNode
	for _, n := range nodes {
		if n.level < cmd.config.MaxDepth {
			parents = append(parents, n)
		}
	}
	for len(nodes) < cmd.config.Items {
		parent := parents[cmd.rand.Intn(len(parents))]
		child := &bomNode{level: parent.level + 1}
		nodes = append(nodes, child)
		cmd.link(parent, child)
	}

	return nodes
}

func (cmd *GenerateCommand) link(parent, child *bomNode) {
	qty := 1 + cmd.rand.Intn(5)
	if child.level > 2 {
		qty += cmd.rand.Intn(5)
	}
	parent.children = append(parent.children, bomEdge{child: child, qty: entities.Quantity(qty)})
	child.parents++
}

// shareable returns same-level nodes that parent does not use yet
func shareable(level []*bomNode, parent *bomNode) []*bomNode {
	var candidates []*bomNode
	for _, n := range level {
		if n.parents < 3 && !parent.hasChild(n) {
			candidates = append(candidates, n)
		}
	}
	return candidates
}

func (cmd *GenerateCommand) assignSKUs(nodes []*bomNode) {
	subs, raws := 0, 0
	for _, n := range nodes {
		if len(n.children) > 0 {
			subs++
			n.sku = entities.SKU(fmt.Sprintf("%s%04d", cmd.config.SubPrefix, subs))
		} else {
			raws++
			n.sku = entities.SKU(fmt.Sprintf("RAW-%04d", raws))
		}
	}
}

var materials = []string{"Screw", "Lens", "Strap", "Cable", "Board", "Foam pad", "Bracket", "Sensor", "Fan", "Battery"}

func (cmd *GenerateCommand) generatePart(node *bomNode) *entities.Part {
	if len(node.children) == 0 {
		return &entities.Part{
			SKU:         node.sku,
			Description: fmt.Sprintf("%s %s", materials[cmd.rand.Intn(len(materials))], node.sku),
			Price:       decimal.New(int64(50+cmd.rand.Intn(50000)), -3),
			Stock:       entities.Quantity(cmd.rand.Intn(cmd.config.MaxStock + 1)),
		}
	}

	desc := "Sub-assembly"
	if node.level == 0 {
		desc = "Assembly"
	}
	return &entities.Part{
		SKU:         node.sku,
		Description: fmt.Sprintf("%s %s", desc, node.sku),
		Price:       decimal.New(int64(5000+cmd.rand.Intn(500000)), -3),
		Stock:       entities.Quantity(cmd.rand.Intn(4)),
	}
}
