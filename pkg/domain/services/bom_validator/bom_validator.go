// Package bom_validator checks a whole BOM catalog for structural problems
// that would make an explosion fail or give surprising results.
package bom_validator

import (
	"fmt"
	"sort"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
)

// Issue points at one problematic BOM line
type Issue struct {
	BOM    *entities.BillOfMaterials
	Line   entities.Line
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s line %d (%s): %s", i.BOM.DisplayName(), i.Line.LineID(), i.Line.Kind(), i.Reason)
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	HasCycles         bool
	CyclePaths        [][]entities.ProductTemplateID
	DuplicateLines    []Issue
	InvalidQuantities []Issue
	UoMMismatches     []Issue
	OrphanedLines     []Issue
	Errors            []string
	Warnings          []string
}

// Valid reports whether no blocking error was found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// BOMValidator provides validation for BOM structure integrity
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidateBOMs validates boms against the known product templates.
// Cycles, duplicate lines, zero quantities and unit category mismatches are
// errors; references to products outside templates or without active
// variants are warnings.
func ValidateBOMs(boms []*entities.BillOfMaterials, templates []*entities.ProductTemplate) *ValidationResult {
	return NewBOMValidator().ValidateBOMs(boms, templates)
}

// ValidateBOMs performs comprehensive validation on a set of BOMs
func (v *BOMValidator) ValidateBOMs(boms []*entities.BillOfMaterials, templates []*entities.ProductTemplate) *ValidationResult {
	result := &ValidationResult{
		CyclePaths: make([][]entities.ProductTemplateID, 0),
		Errors:     make([]string, 0),
		Warnings:   make([]string, 0),
	}

	known := make(map[entities.ProductTemplateID]*entities.ProductTemplate, len(templates))
	for _, t := range templates {
		known[t.ID] = t
	}

	for _, bom := range boms {
		if !bom.Quantity.IsPositive() {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: quantity must be positive, got %s", bom.DisplayName(), bom.Quantity))
		}
		for _, line := range bom.AllLines() {
			v.checkLine(bom, line, known, result)
		}
	}

	result.DuplicateLines = v.detectDuplicateLines(boms)
	result.CyclePaths = v.detectCycles(v.buildAdjacencyMap(boms))
	result.HasCycles = len(result.CyclePaths) > 0

	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, fmt.Sprintf("BOM cycle detected: %v", cycle))
	}
	for _, issue := range result.DuplicateLines {
		result.Errors = append(result.Errors, issue.String())
	}
	for _, issue := range result.InvalidQuantities {
		result.Errors = append(result.Errors, issue.String())
	}
	for _, issue := range result.UoMMismatches {
		result.Errors = append(result.Errors, issue.String())
	}
	for _, issue := range result.OrphanedLines {
		result.Warnings = append(result.Warnings, issue.String())
	}

	return result
}

func (v *BOMValidator) checkLine(bom *entities.BillOfMaterials, line entities.Line, known map[entities.ProductTemplateID]*entities.ProductTemplate, result *ValidationResult) {
	if !line.QtyPerUnit().IsPositive() {
		result.InvalidQuantities = append(result.InvalidQuantities, Issue{
			BOM:    bom,
			Line:   line,
			Reason: fmt.Sprintf("quantity must be positive, got %s", line.QtyPerUnit()),
		})
	}

	var (
		target *entities.ProductTemplate
		active bool
	)
	switch l := line.(type) {
	case *entities.BOMLine:
		target = l.Product.Template
		active = l.Product.Active
	case *entities.BOMTemplateLine:
		target = l.ProductTemplate
		active = len(l.ProductTemplate.ActiveVariants()) > 0
	}

	if target != nil && line.LineUoM() != nil && target.UoM != nil &&
		line.LineUoM().Category.ID != target.UoM.Category.ID {
		result.UoMMismatches = append(result.UoMMismatches, Issue{
			BOM:  bom,
			Line: line,
			Reason: fmt.Sprintf("unit %s (%s) cannot be converted to %s (%s)",
				line.LineUoM().Name, line.LineUoM().Category.Name, target.UoM.Name, target.UoM.Category.Name),
		})
	}

	if _, ok := known[line.TargetTemplateID()]; !ok {
		result.OrphanedLines = append(result.OrphanedLines, Issue{BOM: bom, Line: line, Reason: "product is not in the catalog"})
	} else if !active {
		result.OrphanedLines = append(result.OrphanedLines, Issue{BOM: bom, Line: line, Reason: "no active product variant"})
	}
}

// buildAdjacencyMap creates a map of template -> component template relationships
func (v *BOMValidator) buildAdjacencyMap(boms []*entities.BillOfMaterials) map[entities.ProductTemplateID][]entities.ProductTemplateID {
	adjacencyMap := make(map[entities.ProductTemplateID][]entities.ProductTemplateID)

	for _, bom := range boms {
		parent := bom.ProductTemplate.ID
		for _, line := range bom.AllLines() {
			child := line.TargetTemplateID()
			found := false
			for _, existing := range adjacencyMap[parent] {
				if existing == child {
					found = true
					break
				}
			}
			if !found {
				adjacencyMap[parent] = append(adjacencyMap[parent], child)
			}
		}
	}

	return adjacencyMap
}

// detectCycles uses DFS to find cycles in the BOM structure.
// Roots are visited in ascending id order so results are stable.
func (v *BOMValidator) detectCycles(adjacencyMap map[entities.ProductTemplateID][]entities.ProductTemplateID) [][]entities.ProductTemplateID {
	visited := make(map[entities.ProductTemplateID]bool)
	recursionStack := make(map[entities.ProductTemplateID]bool)
	cycles := make([][]entities.ProductTemplateID, 0)

	parents := make([]entities.ProductTemplateID, 0, len(adjacencyMap))
	for parent := range adjacencyMap {
		parents = append(parents, parent)
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i] < parents[j] })

	for _, parent := range parents {
		if !visited[parent] {
			v.dfsDetectCycle(parent, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search to detect cycles
func (v *BOMValidator) dfsDetectCycle(
	current entities.ProductTemplateID,
	adjacencyMap map[entities.ProductTemplateID][]entities.ProductTemplateID,
	visited map[entities.ProductTemplateID]bool,
	recursionStack map[entities.ProductTemplateID]bool,
	path []entities.ProductTemplateID,
	cycles *[][]entities.ProductTemplateID,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
		} else if recursionStack[child] {
			for i, id := range path {
				if id == child {
					cycle := make([]entities.ProductTemplateID, 0, len(path)-i+1)
					cycle = append(cycle, path[i:]...)
					cycle = append(cycle, child) // close the cycle
					*cycles = append(*cycles, cycle)
					break
				}
			}
		}
	}

	recursionStack[current] = false
}

// detectDuplicateLines finds lines of one BOM with the same target and sequence
func (v *BOMValidator) detectDuplicateLines(boms []*entities.BillOfMaterials) []Issue {
	duplicates := make([]Issue, 0)

	for _, bom := range boms {
		seen := make(map[string]entities.Line)
		for _, line := range bom.AllLines() {
			var target int64
			switch l := line.(type) {
			case *entities.BOMLine:
				target = int64(l.Product.ID)
			case *entities.BOMTemplateLine:
				target = int64(l.ProductTemplate.ID)
			}
			key := fmt.Sprintf("%s|%d|%d|%v", line.Kind(), target, sequenceOf(line), restrictionIDs(line))

			if existing, exists := seen[key]; exists {
				duplicates = append(duplicates, Issue{
					BOM:    bom,
					Line:   line,
					Reason: fmt.Sprintf("duplicates line %d", existing.LineID()),
				})
			} else {
				seen[key] = line
			}
		}
	}

	return duplicates
}

func sequenceOf(line entities.Line) int {
	switch l := line.(type) {
	case *entities.BOMLine:
		return l.Sequence
	case *entities.BOMTemplateLine:
		return l.Sequence
	}
	return 0
}

// restrictionIDs lists the restriction value ids in ascending order
func restrictionIDs(line entities.Line) []int64 {
	values := line.VariantRestrictions()
	ids := make([]int64, len(values))
	for i, v := range values {
		ids[i] = v.ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
