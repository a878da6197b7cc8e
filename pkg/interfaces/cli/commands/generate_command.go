package commands

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/catalog"
)

// GenerateConfig holds configuration for synthetic catalog generation
type GenerateConfig struct {
	Items    int     // Total number of products to generate
	MaxDepth int     // Maximum depth of BOM tree
	Phantom  float64 // Share of intermediate assemblies generated as kits
	Seed     int64   // Random seed for reproducible generation
}

// GenerateCommand builds random but acyclic catalogs for load testing
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

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// BOMNode represents a product in the generated BOM tree
type BOMNode struct {
	Code     string
	ID       int64
	Level    int
	Children []*BOMEdge
	Parents  []*BOMNode
	IsRoot   bool
	IsShared bool
}

// BOMEdge is one parent to child line
type BOMEdge struct {
	Child    *BOMNode
	Quantity int
}

func newGenerateCommand(rt *runtime) *cobra.Command {
	var config GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate DESTINATION",
		Short: "Generate a synthetic catalog with shared parts and phantom kits",
		Example: `  bomx generate ./big-catalog --items 5000 --max-depth 8
  bomx generate catalog.toml --items 50 --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Items < 1 || config.MaxDepth < 1 {
				return fmt.Errorf("--items and --max-depth must be positive")
			}
			if config.Phantom < 0 || config.Phantom > 1 {
				return fmt.Errorf("--phantom must be between 0 and 1")
			}

			snap := NewGenerateCommand(config).Generate()
			if _, err := snap.Build(); err != nil {
				return fmt.Errorf("generated catalog is inconsistent: %w", err)
			}
			if err := writeSnapshot(args[0], snap); err != nil {
				return err
			}
			if rt.verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "✅ Generated %d products and %d BOMs in %s\n",
					len(snap.Products), len(snap.BOMs), args[0])
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&config.Items, "items", 100, "number of products to generate")
	flags.IntVar(&config.MaxDepth, "max-depth", 5, "maximum BOM depth")
	flags.Float64Var(&config.Phantom, "phantom", 0.2, "share of sub-assemblies generated as kits")
	flags.Int64Var(&config.Seed, "seed", 0, "random seed (0 = time based)")
	return cmd
}

// Generate builds the tree and turns it into catalog records
func (cmd *GenerateCommand) Generate() *catalog.Snapshot {
	return cmd.buildSnapshot(cmd.generateBOMTree())
}

// generateBOMTree creates a BOM tree with shared components, in creation order
func (cmd *GenerateCommand) generateBOMTree() []*BOMNode {
	var nodes []*BOMNode
	newNode := func(code string, level int) *BOMNode {
		n := &BOMNode{Code: code, ID: int64(len(nodes) + 1), Level: level}
		nodes = append(nodes, n)
		return n
	}

	// Calculate number of root nodes (about 1-3% of total items)
	numRoots := max(1, cmd.config.Items/50+cmd.rand.Intn(3))
	if numRoots > cmd.config.Items {
		numRoots = cmd.config.Items
	}

	var roots []*BOMNode
	for i := 0; i < numRoots; i++ {
		node := newNode(fmt.Sprintf("ASSEMBLY-%03d", i+1), 0)
		node.IsRoot = true
		roots = append(roots, node)
	}

	currentLevel := roots
	level := 0

	for level < cmd.config.MaxDepth && len(nodes) < cmd.config.Items {
		level++
		var nextLevel []*BOMNode

		for _, parent := range currentLevel {
			// Each parent gets 2-8 children
			numChildren := 2 + cmd.rand.Intn(7)

			for child := 0; child < numChildren && len(nodes) < cmd.config.Items; child++ {
				// 20% chance to reuse an existing part
				var childNode *BOMNode
				if level > 1 && cmd.rand.Float64() < 0.2 {
					candidates := cmd.findShareableParts(nodes, level, parent)
					if len(candidates) > 0 {
						childNode = candidates[cmd.rand.Intn(len(candidates))]
						childNode.IsShared = true
					}
				}

				if childNode == nil {
					childNode = newNode(fmt.Sprintf("PART-L%d-%04d", level, len(nodes)), level)
					nextLevel = append(nextLevel, childNode)
				}

				// Higher quantities for lower levels
				qty := 1 + cmd.rand.Intn(5)
				if level > 2 {
					qty += cmd.rand.Intn(5)
				}
				parent.Children = append(parent.Children, &BOMEdge{Child: childNode, Quantity: qty})
				childNode.Parents = append(childNode.Parents, parent)
			}
		}

		if len(nextLevel) == 0 {
			break
		}
		currentLevel = nextLevel
	}

	// Fill remaining items as leaf components
	for len(nodes) < cmd.config.Items {
		node := newNode(fmt.Sprintf("COMPONENT-%04d", len(nodes)), level+1)
		parent := currentLevel[cmd.rand.Intn(len(currentLevel))]
		parent.Children = append(parent.Children, &BOMEdge{Child: node, Quantity: 1 + cmd.rand.Intn(10)})
		node.Parents = append(node.Parents, parent)
	}

	return nodes
}

// findShareableParts finds existing parts that can be shared without creating a cycle
func (cmd *GenerateCommand) findShareableParts(nodes []*BOMNode, maxLevel int, parent *BOMNode) []*BOMNode {
	var candidates []*BOMNode
	for _, node := range nodes {
		if node.Level >= maxLevel-1 && len(node.Parents) < 3 && node != parent && !node.IsRoot {
			if !cmd.isAncestor(node, parent) && !hasChild(parent, node) {
				candidates = append(candidates, node)
			}
		}
	}
	return candidates
}

// isAncestor checks if candidate is an ancestor of node
func (cmd *GenerateCommand) isAncestor(candidate, node *BOMNode) bool {
	visited := make(map[int64]bool)
	var walk func(*BOMNode) bool
	walk = func(n *BOMNode) bool {
		if visited[n.ID] {
			return false
		}
		visited[n.ID] = true
		for _, p := range n.Parents {
			if p == candidate || walk(p) {
				return true
			}
		}
		return false
	}
	return walk(node)
}

func hasChild(parent, child *BOMNode) bool {
	for _, e := range parent.Children {
		if e.Child == child {
			return true
		}
	}
	return false
}

// buildSnapshot turns the tree into records: one template and variant per
// node, a BOM per node with children and a workcenter per manufactured BOM
func (cmd *GenerateCommand) buildSnapshot(nodes []*BOMNode) *catalog.Snapshot {
	snap := &catalog.Snapshot{
		UoMs: []catalog.UoMRecord{
			{ID: 1, Name: "Units", Category: "Unit", Type: "reference", Ratio: decimal.NewFromInt(1), Rounding: decimal.NewFromInt(1)},
		},
	}

	var bomID, lineID int64
	for _, node := range nodes {
		price := decimal.Zero
		if len(node.Children) == 0 {
			price = decimal.New(int64(1+cmd.rand.Intn(5000)), -2)
		}
		snap.Products = append(snap.Products, catalog.ProductRecord{
			TemplateID:   node.ID,
			TemplateName: cmd.generateName(node),
			ProductID:    node.ID,
			Code:         node.Code,
			UoM:          "Units",
			Price:        price,
		})

		if len(node.Children) == 0 {
			continue
		}

		bomID++
		bomType := "normal"
		if !node.IsRoot && cmd.rand.Float64() < cmd.config.Phantom {
			bomType = "phantom"
		}
		snap.BOMs = append(snap.BOMs, catalog.BOMRecord{
			ID:         bomID,
			Code:       node.Code,
			TemplateID: node.ID,
			Type:       bomType,
			Quantity:   decimal.NewFromInt(1),
			Sequence:   1,
		})
		for i, edge := range node.Children {
			lineID++
			snap.BOMLines = append(snap.BOMLines, catalog.BOMLineRecord{
				ID:          lineID,
				BOMID:       bomID,
				ProductCode: edge.Child.Code,
				Quantity:    decimal.NewFromInt(int64(edge.Quantity)),
				Sequence:    (i + 1) * 10,
			})
		}
		if bomType == "normal" {
			snap.Workcenters = append(snap.Workcenters, catalog.WorkcenterRecord{
				BOMID:       bomID,
				Workcenter:  cmd.generateWorkcenter(node),
				CycleNumber: decimal.NewFromInt(1),
				HourNumber:  decimal.New(int64(5+cmd.rand.Intn(95)), -2),
				TimeStart:   decimal.New(int64(cmd.rand.Intn(50)), -2),
			})
		}
	}
	return snap
}

// generateName creates a product name based on the node's position in the tree
func (cmd *GenerateCommand) generateName(node *BOMNode) string {
	switch {
	case node.IsRoot:
		return fmt.Sprintf("Assembly %s", node.Code)
	case len(node.Children) > 0:
		return fmt.Sprintf("Sub-assembly %s", node.Code)
	case node.IsShared:
		return fmt.Sprintf("Common part %s", node.Code)
	default:
		return fmt.Sprintf("Component %s", node.Code)
	}
}

func (cmd *GenerateCommand) generateWorkcenter(node *BOMNode) string {
	switch {
	case node.IsRoot:
		return "Final Assembly"
	case node.Level <= 2:
		return "Sub Assembly"
	default:
		return "Machining"
	}
}
