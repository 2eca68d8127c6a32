package protodiff

import (
	"github.com/axle-registry/axle/pkg/protoparse"
)

// Checker evaluates the structural compatibility rules between a
// "before" document and a proposed "after" document.
type Checker struct {
	before *Index
	after  *Index
}

// NewChecker builds a Checker from two parsed documents
func NewChecker(before, after *protoparse.File) *Checker {
	return &Checker{
		before: NewIndex(before),
		after:  NewIndex(after),
	}
}

// Validate reports whether the after document is structurally
// compatible with the before document: true iff no rule found issues.
func (c *Checker) Validate() bool {
	return c.Issues() == 0
}

// Issues returns the total issue count over all eight rules
func (c *Checker) Issues() int {
	return c.CheckNoUsingReservedFields() +
		c.CheckNoRemovingReservedFields() +
		c.CheckNoRemovingFieldsWithoutReserve() +
		c.CheckNoChangingFieldIDs() +
		c.CheckNoChangingFieldTypes() +
		c.CheckNoChangingFieldNames() +
		c.CheckNoRemovingServiceRPCs() +
		c.CheckNoChangingRPCSignature()
}

// CheckNoUsingReservedFields counts fields in the after document that
// occupy a tag or name the before document had reserved.
func (c *Checker) CheckNoUsingReservedFields() int {
	issues := 0
	for path, beforeMsg := range c.before.messages {
		afterMsg, ok := c.after.messages[path]
		if !ok {
			continue
		}
		for tag := range afterMsg.activeTags {
			if _, reserved := beforeMsg.reservedTags[tag]; reserved {
				issues++
			}
		}
		for name := range afterMsg.activeNames {
			if _, reserved := beforeMsg.reservedNames[name]; reserved {
				issues++
			}
		}
	}
	return issues
}

// CheckNoRemovingReservedFields counts reservations present in the
// before document that the after document dropped.
func (c *Checker) CheckNoRemovingReservedFields() int {
	issues := 0
	for path, beforeMsg := range c.before.messages {
		afterMsg, ok := c.after.messages[path]
		if !ok {
			issues += beforeMsg.reservedCount()
			continue
		}
		for tag := range beforeMsg.reservedTags {
			if _, still := afterMsg.reservedTags[tag]; !still {
				issues++
			}
		}
		for name := range beforeMsg.reservedNames {
			if _, still := afterMsg.reservedNames[name]; !still {
				issues++
			}
		}
	}
	return issues
}

// CheckNoRemovingFieldsWithoutReserve counts fields removed from a
// message without reserving their name or their number. A field
// removed with neither reserved is counted twice.
func (c *Checker) CheckNoRemovingFieldsWithoutReserve() int {
	issues := 0
	for path, beforeMsg := range c.before.messages {
		afterMsg, ok := c.after.messages[path]
		if !ok {
			afterMsg = &messageIndex{
				reservedTags:  map[int]struct{}{},
				reservedNames: map[string]struct{}{},
				fieldByName:   map[string]fieldDescriptor{},
				activeTags:    map[int]struct{}{},
				activeNames:   map[string]struct{}{},
			}
		}
		for name, desc := range beforeMsg.fieldByName {
			if _, kept := afterMsg.fieldByName[name]; kept {
				continue
			}
			nameCovered := false
			if _, ok := afterMsg.reservedNames[name]; ok {
				nameCovered = true
			}
			if _, ok := afterMsg.activeNames[name]; ok {
				nameCovered = true
			}
			if !nameCovered {
				issues++
			}
			tagCovered := false
			if _, ok := afterMsg.reservedTags[desc.Tag]; ok {
				tagCovered = true
			}
			if _, ok := afterMsg.activeTags[desc.Tag]; ok {
				tagCovered = true
			}
			if !tagCovered {
				issues++
			}
		}
	}
	return issues
}

// CheckNoChangingFieldIDs counts fields and enum constants whose tag
// changed while keeping the same name in the same scope.
func (c *Checker) CheckNoChangingFieldIDs() int {
	issues := 0
	for path, beforeMsg := range c.before.messages {
		afterMsg, ok := c.after.messages[path]
		if !ok {
			continue
		}
		for name, beforeDesc := range beforeMsg.fieldByName {
			afterDesc, shared := afterMsg.fieldByName[name]
			if shared && beforeDesc.Tag != afterDesc.Tag {
				issues++
			}
		}
	}
	for path, beforeEnum := range c.before.enums {
		afterEnum, ok := c.after.enums[path]
		if !ok {
			continue
		}
		for name, beforeTag := range beforeEnum.constantByName {
			afterTag, shared := afterEnum.constantByName[name]
			if shared && beforeTag != afterTag {
				issues++
			}
		}
	}
	return issues
}

// CheckNoChangingFieldTypes counts type and label changes on fields
// sharing a name in both documents. A field that changed both its type
// and its label counts twice.
func (c *Checker) CheckNoChangingFieldTypes() int {
	issues := 0
	for path, beforeMsg := range c.before.messages {
		afterMsg, ok := c.after.messages[path]
		if !ok {
			continue
		}
		for name, beforeDesc := range beforeMsg.fieldByName {
			afterDesc, shared := afterMsg.fieldByName[name]
			if !shared {
				continue
			}
			if beforeDesc.Type != afterDesc.Type {
				issues++
			}
			if beforeDesc.Label != afterDesc.Label {
				issues++
			}
		}
	}
	return issues
}

// CheckNoChangingFieldNames counts tags that resolve to a different
// name in the after document, over the combined message-field and
// enum-constant numbering.
func (c *Checker) CheckNoChangingFieldNames() int {
	issues := 0
	beforeNames := c.before.tagNames()
	afterNames := c.after.tagNames()
	for scope, beforeScoped := range beforeNames {
		afterScoped, ok := afterNames[scope]
		if !ok {
			continue
		}
		for tag, beforeName := range beforeScoped {
			afterName, shared := afterScoped[tag]
			if shared && beforeName != afterName {
				issues++
			}
		}
	}
	return issues
}

// CheckNoRemovingServiceRPCs counts RPCs present in the before document
// that the after document no longer declares.
func (c *Checker) CheckNoRemovingServiceRPCs() int {
	issues := 0
	for name, beforeSvc := range c.before.services {
		afterSvc, ok := c.after.services[name]
		if !ok {
			issues += len(beforeSvc.rpcNames)
			continue
		}
		for rpcName := range beforeSvc.rpcNames {
			if _, kept := afterSvc.rpcNames[rpcName]; !kept {
				issues++
			}
		}
	}
	return issues
}

// CheckNoChangingRPCSignature counts RPCs shared by name whose request
// or response signature changed.
func (c *Checker) CheckNoChangingRPCSignature() int {
	issues := 0
	for name, beforeSvc := range c.before.services {
		afterSvc, ok := c.after.services[name]
		if !ok {
			continue
		}
		for rpcName, beforeSig := range beforeSvc.rpcSignature {
			afterSig, shared := afterSvc.rpcSignature[rpcName]
			if shared && beforeSig != afterSig {
				issues++
			}
		}
	}
	return issues
}
