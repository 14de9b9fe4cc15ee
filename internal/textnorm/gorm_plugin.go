package textnorm

import (
	"reflect"

	"gorm.io/gorm"
)

// Plugin runs Normalize over every string field of entities being created or
// updated. It registers ahead of gorm's own create/update callbacks so the
// normalized values are what reach the database. The pass is unconditional:
// it is a storage-layer invariant, not business logic.
type Plugin struct{}

func (Plugin) Name() string { return "textnorm" }

func (Plugin) Initialize(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").Register("textnorm:create", normalizeStatement); err != nil {
		return err
	}
	return db.Callback().Update().Before("gorm:update").Register("textnorm:update", normalizeStatement)
}

func normalizeStatement(db *gorm.DB) {
	if db.Statement == nil {
		return
	}
	rv := db.Statement.ReflectValue
	if !rv.IsValid() {
		return
	}
	normalizeValue(rv)
}

func normalizeValue(rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Pointer:
		if !rv.IsNil() {
			normalizeValue(rv.Elem())
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			normalizeValue(rv.Index(i))
		}
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Field(i)
			if !field.CanSet() {
				continue
			}
			if field.Kind() == reflect.String {
				field.SetString(Normalize(field.String()))
				continue
			}
			normalizeValue(field)
		}
	}
}
