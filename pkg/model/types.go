package model

import internalmodel "github.com/goliatone/go-formcanvas/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeNumber  = internalmodel.FieldTypeNumber
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeArray   = internalmodel.FieldTypeArray
)

const (
	ValidationRuleMin       = internalmodel.ValidationRuleMin
	ValidationRuleMax       = internalmodel.ValidationRuleMax
	ValidationRuleMinLength = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern   = internalmodel.ValidationRulePattern
	ValidationRuleFormat    = internalmodel.ValidationRuleFormat
	ValidationRuleCustom    = internalmodel.ValidationRuleCustom
)

type ValidationRule = internalmodel.ValidationRule
type Field = internalmodel.Field
type Block = internalmodel.Block
type FormModel = internalmodel.FormModel
type Form = internalmodel.Form
