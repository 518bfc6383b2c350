package services

import (
	"fmt"
	"sort"

	"github.com/visualrobotics/mrp/pkg/domain/entities"
)

// BOMValidator provides validation for BOM structure integrity
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	HasCycles      bool
	CyclePaths     [][]entities.SKU
	DuplicateLines []entities.BOMLine
	UnknownParts   []entities.SKU
	DuplicateParts []entities.SKU
	Errors         []string
}

// IsValid reports whether no problem was found
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Merge appends the findings of other to r
func (r *ValidationResult) Merge(other *ValidationResult) {
	r.HasCycles = r.HasCycles || other.HasCycles
	r.CyclePaths = append(r.CyclePaths, other.CyclePaths...)
	r.DuplicateLines = append(r.DuplicateLines, other.DuplicateLines...)
	r.UnknownParts = append(r.UnknownParts, other.UnknownParts...)
	r.DuplicateParts = append(r.DuplicateParts, other.DuplicateParts...)
	r.Errors = append(r.Errors, other.Errors...)
}

func newValidationResult() *ValidationResult {
	return &ValidationResult{
		CyclePaths:     make([][]entities.SKU, 0),
		DuplicateLines: make([]entities.BOMLine, 0),
		UnknownParts:   make([]entities.SKU, 0),
		DuplicateParts: make([]entities.SKU, 0),
		Errors:         make([]string, 0),
	}
}

// ValidateBOM checks a set of BOM lines for cycles and repeated parent/child pairs
func (v *BOMValidator) ValidateBOM(bomLines []entities.BOMLine) *ValidationResult {
	result := newValidationResult()

	// Build adjacency map for cycle detection
	adjacencyMap := v.buildAdjacencyMap(bomLines)

	cycles := v.detectCycles(adjacencyMap)
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles

	result.DuplicateLines = v.detectDuplicateLines(bomLines)

	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, fmt.Sprintf("BOM cycle detected: %v", cycle))
	}

	if len(result.DuplicateLines) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d duplicate BOM lines", len(result.DuplicateLines)))
	}

	return result
}

// ValidateBOMPartConsistency reports SKUs used in BOM lines that have no part row
func (v *BOMValidator) ValidateBOMPartConsistency(bomLines []entities.BOMLine, parts []entities.Part) *ValidationResult {
	result := newValidationResult()

	known := make(map[entities.SKU]bool, len(parts))
	for _, part := range parts {
		known[part.SKU] = true
	}

	unknown := make(map[entities.SKU]bool)
	for _, line := range bomLines {
		for _, sku := range []entities.SKU{line.ParentSKU, line.ChildSKU} {
			if !known[sku] {
				unknown[sku] = true
			}
		}
	}

	for sku := range unknown {
		result.UnknownParts = append(result.UnknownParts, sku)
	}
	sortSKUs(result.UnknownParts)

	if len(result.UnknownParts) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("BOM references unknown parts: %v", result.UnknownParts))
	}

	return result
}

// ValidatePartUniqueness validates that SKUs are unique across parts
func (v *BOMValidator) ValidatePartUniqueness(parts []entities.Part) *ValidationResult {
	result := newValidationResult()

	seen := make(map[entities.SKU]bool)
	for _, part := range parts {
		if seen[part.SKU] {
			result.DuplicateParts = append(result.DuplicateParts, part.SKU)
		} else {
			seen[part.SKU] = true
		}
	}

	if len(result.DuplicateParts) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate SKUs found: %v", result.DuplicateParts))
	}

	return result
}

// buildAdjacencyMap creates a map of parent -> children relationships with
// children in SKU order
func (v *BOMValidator) buildAdjacencyMap(bomLines []entities.BOMLine) map[entities.SKU][]entities.SKU {
	adjacencyMap := make(map[entities.SKU][]entities.SKU)
	linked := make(map[[2]entities.SKU]bool)

	for _, line := range bomLines {
		edge := [2]entities.SKU{line.ParentSKU, line.ChildSKU}
		if linked[edge] {
			continue
		}
		linked[edge] = true
		adjacencyMap[line.ParentSKU] = append(adjacencyMap[line.ParentSKU], line.ChildSKU)
	}

	for parent := range adjacencyMap {
		sortSKUs(adjacencyMap[parent])
	}

	return adjacencyMap
}

// detectCycles uses DFS from every parent, in SKU order, to find cycles
func (v *BOMValidator) detectCycles(adjacencyMap map[entities.SKU][]entities.SKU) [][]entities.SKU {
	visited := make(map[entities.SKU]bool)
	recursionStack := make(map[entities.SKU]bool)
	cycles := make([][]entities.SKU, 0)

	parents := make([]entities.SKU, 0, len(adjacencyMap))
	for parent := range adjacencyMap {
		parents = append(parents, parent)
	}
	sortSKUs(parents)

	for _, parent := range parents {
		if !visited[parent] {
			v.dfsDetectCycle(parent, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search to detect cycles
func (v *BOMValidator) dfsDetectCycle(
	current entities.SKU,
	adjacencyMap map[entities.SKU][]entities.SKU,
	visited map[entities.SKU]bool,
	recursionStack map[entities.SKU]bool,
	path []entities.SKU,
	cycles *[][]entities.SKU,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
			continue
		}
		if !recursionStack[child] {
			continue
		}

		// Found a cycle - extract the cycle path
		for i, sku := range path {
			if sku == child {
				cycle := make([]entities.SKU, 0, len(path)-i+1)
				cycle = append(cycle, path[i:]...)
				cycle = append(cycle, child) // Close the cycle
				*cycles = append(*cycles, cycle)
				break
			}
		}
	}

	recursionStack[current] = false
}

// detectDuplicateLines finds lines that repeat a parent/child pair
func (v *BOMValidator) detectDuplicateLines(bomLines []entities.BOMLine) []entities.BOMLine {
	seen := make(map[[2]entities.SKU]bool)
	duplicates := make([]entities.BOMLine, 0)

	for _, line := range bomLines {
		key := [2]entities.SKU{line.ParentSKU, line.ChildSKU}
		if seen[key] {
			duplicates = append(duplicates, line)
		} else {
			seen[key] = true
		}
	}

	return duplicates
}

func sortSKUs(skus []entities.SKU) {
	sort.Slice(skus, func(i, j int) bool { return skus[i] < skus[j] })
}
