// Package filterexpr binds AIP-160-style CEL filter strings onto plain query
// descriptor structs. Only conjunctions of whitelisted field predicates are
// accepted; anything else is rejected before evaluation.
package filterexpr

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// ValueKind describes the kind of literal value a field accepts.
type ValueKind string

const (
	KindString    ValueKind = "string"
	KindNumber    ValueKind = "number"
	KindTimestamp ValueKind = "timestamp"
)

// Op represents a supported comparison operation.
type Op string

const (
	OpEQ  Op = "=="
	OpGTE Op = ">="
	OpLTE Op = "<="
	OpSW  Op = "startsWith"
	OpIN  Op = "in"
)

// SetterFunc allows custom assignment of literal values to struct fields.
type SetterFunc func(field reflect.Value, value any) error

// FieldRule declares which operations a filter field supports and which
// struct field each operation populates.
type FieldRule struct {
	Kind   ValueKind
	Ops    map[Op]string
	Setter SetterFunc
}

// Schema whitelists the filterable fields of one resource.
type Schema struct {
	Fields map[string]FieldRule
}

var timeType = reflect.TypeOf(time.Time{})

// BindCELTo parses filter and assigns each predicate's literal onto binding,
// which must be a non-nil pointer to a struct. An empty filter is a no-op.
func BindCELTo(filter string, binding any, schema Schema) error {
	dest, err := bindingStruct(binding)
	if err != nil {
		return err
	}

	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil
	}
	if len(schema.Fields) == 0 {
		return errors.New("filter schema has no fields defined")
	}

	conjuncts, err := parseConjuncts(filter, schema.Fields)
	if err != nil {
		return err
	}

	for _, expr := range conjuncts {
		pred, err := parsePredicate(expr)
		if err != nil {
			return err
		}
		if err := applyPredicate(dest, pred, schema.Fields); err != nil {
			return err
		}
	}
	return nil
}

func bindingStruct(binding any) (reflect.Value, error) {
	v := reflect.ValueOf(binding)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return reflect.Value{}, errors.New("binding must be a non-nil pointer")
	}
	elem := v.Elem()
	if elem.Kind() != reflect.Struct {
		return reflect.Value{}, errors.New("binding must point to a struct")
	}
	return elem, nil
}

func parseConjuncts(filter string, fields map[string]FieldRule) ([]*exprpb.Expr, error) {
	env, err := buildEnv(fields)
	if err != nil {
		return nil, err
	}

	ast, issues := env.Parse(filter)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to convert AST: %w", err)
	}
	return extractConjuncts(parsed.GetExpr())
}

func buildEnv(fields map[string]FieldRule) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields)+1)
	for name, rule := range fields {
		celType, err := celTypeForKind(rule.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		opts = append(opts, cel.Variable(name, celType))
	}
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

func celTypeForKind(kind ValueKind) (*cel.Type, error) {
	switch kind {
	case KindString:
		return cel.StringType, nil
	case KindNumber:
		return cel.DoubleType, nil
	case KindTimestamp:
		return cel.TimestampType, nil
	default:
		return nil, fmt.Errorf("unsupported field kind %s", kind)
	}
}

// extractConjuncts flattens nested AND chains; cel-go parses `a && b && c`
// as binary nodes.
func extractConjuncts(expr *exprpb.Expr) ([]*exprpb.Expr, error) {
	if expr == nil {
		return nil, errors.New("empty expression")
	}
	call := expr.GetCallExpr()
	if call == nil {
		return []*exprpb.Expr{expr}, nil
	}
	switch call.Function {
	case "_&&_":
		if len(call.Args) < 2 || call.Target != nil {
			return nil, errors.New("logical AND must have at least two operands")
		}
		var out []*exprpb.Expr
		for _, arg := range call.Args {
			nested, err := extractConjuncts(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
		return out, nil
	case "_||_", "_?_:_", "!":
		return nil, fmt.Errorf("logical operator %q is not supported; only AND is allowed", call.Function)
	default:
		return []*exprpb.Expr{expr}, nil
	}
}

type predicate struct {
	Field string
	Op    Op
	Value any
}

func applyPredicate(dest reflect.Value, pred predicate, fields map[string]FieldRule) error {
	rule, ok := fields[pred.Field]
	if !ok {
		return fmt.Errorf("field %q is not allowed", pred.Field)
	}
	targetName, ok := rule.Ops[pred.Op]
	if !ok {
		return fmt.Errorf("operator %q is not allowed for field %q", string(pred.Op), pred.Field)
	}
	if err := validateLiteral(rule.Kind, pred.Op, pred.Value); err != nil {
		return fmt.Errorf("field %q: %w", pred.Field, err)
	}

	field := dest.FieldByName(targetName)
	if !field.IsValid() {
		return fmt.Errorf("params struct %s has no field named %q", dest.Type(), targetName)
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field %q on params struct", targetName)
	}

	if rule.Setter != nil {
		if field.Kind() == reflect.Ptr && field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		if err := rule.Setter(field, pred.Value); err != nil {
			return fmt.Errorf("setter for field %q failed: %w", targetName, err)
		}
		return nil
	}
	if err := assignValue(field, pred.Value); err != nil {
		return fmt.Errorf("failed to assign field %q: %w", targetName, err)
	}
	return nil
}

func parsePredicate(expr *exprpb.Expr) (predicate, error) {
	call := expr.GetCallExpr()
	if call == nil {
		return predicate{}, errors.New("unsupported expression; expected comparison or function call")
	}
	switch call.Function {
	case "_==_":
		return parseBinary(call, OpEQ)
	case "_>=_":
		return parseBinary(call, OpGTE)
	case "_<=_":
		return parseBinary(call, OpLTE)
	case "_in_", "@in":
		return parseReceiverCall(call, OpIN, "in operator")
	case "startsWith":
		pred, err := parseReceiverCall(call, OpSW, "startsWith")
		if err != nil {
			return predicate{}, err
		}
		if _, ok := pred.Value.(string); !ok {
			return predicate{}, errors.New("startsWith requires a string literal argument")
		}
		return pred, nil
	default:
		return predicate{}, fmt.Errorf("function %q is not supported", call.Function)
	}
}

func parseBinary(call *exprpb.Expr_Call, op Op) (predicate, error) {
	if call.Target != nil || len(call.Args) != 2 {
		return predicate{}, fmt.Errorf("operator %q expects two operands", string(op))
	}
	field, err := parseFieldIdent(call.Args[0])
	if err != nil {
		return predicate{}, err
	}
	value, err := parseLiteral(call.Args[1])
	if err != nil {
		return predicate{}, err
	}
	return predicate{Field: field, Op: op, Value: value}, nil
}

// parseReceiverCall handles both call shapes cel-go emits for `x in list`
// and `x.startsWith(y)`: with the field as target or as first argument. For
// the @in form the list is the second operand; with a receiver the field is
// the sole argument.
func parseReceiverCall(call *exprpb.Expr_Call, op Op, what string) (predicate, error) {
	var fieldExpr, valueExpr *exprpb.Expr
	if call.Target != nil {
		if len(call.Args) != 1 {
			return predicate{}, fmt.Errorf("%s with receiver must have exactly one argument", what)
		}
		if op == OpIN {
			fieldExpr, valueExpr = call.Args[0], call.Target
		} else {
			fieldExpr, valueExpr = call.Target, call.Args[0]
		}
	} else {
		if len(call.Args) != 2 {
			return predicate{}, fmt.Errorf("%s expects two operands", what)
		}
		fieldExpr, valueExpr = call.Args[0], call.Args[1]
	}

	field, err := parseFieldIdent(fieldExpr)
	if err != nil {
		return predicate{}, err
	}
	value, err := parseLiteral(valueExpr)
	if err != nil {
		return predicate{}, err
	}
	return predicate{Field: field, Op: op, Value: value}, nil
}

func parseFieldIdent(expr *exprpb.Expr) (string, error) {
	ident := expr.GetIdentExpr()
	if ident == nil {
		return "", errors.New("left-hand side must be an identifier")
	}
	return ident.GetName(), nil
}

func parseLiteral(expr *exprpb.Expr) (any, error) {
	if constant := expr.GetConstExpr(); constant != nil {
		switch constant.ConstantKind.(type) {
		case *exprpb.Constant_StringValue:
			return constant.GetStringValue(), nil
		case *exprpb.Constant_Int64Value:
			return float64(constant.GetInt64Value()), nil
		case *exprpb.Constant_Uint64Value:
			return float64(constant.GetUint64Value()), nil
		case *exprpb.Constant_DoubleValue:
			return constant.GetDoubleValue(), nil
		default:
			return nil, fmt.Errorf("literal type %T is not supported", constant.ConstantKind)
		}
	}

	if list := expr.GetListExpr(); list != nil {
		elements := list.GetElements()
		values := make([]string, len(elements))
		for i, elem := range elements {
			val, err := parseLiteral(elem)
			if err != nil {
				return nil, fmt.Errorf("list literal element %d: %w", i, err)
			}
			str, ok := val.(string)
			if !ok {
				return nil, errors.New("list literal elements must be strings")
			}
			values[i] = str
		}
		return values, nil
	}

	if call := expr.GetCallExpr(); call != nil && call.Function == "timestamp" {
		if call.Target != nil || len(call.Args) != 1 {
			return nil, errors.New("timestamp() expects a single string argument")
		}
		arg := call.Args[0].GetConstExpr()
		if arg == nil {
			return nil, errors.New("timestamp() argument must be a string literal")
		}
		str := arg.GetStringValue()
		if str == "" {
			return nil, errors.New("timestamp() argument must not be empty")
		}
		if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
			return t, nil
		}
		if t, err := time.Parse(time.RFC3339, str); err == nil {
			return t, nil
		}
		return nil, fmt.Errorf("timestamp literal %q is not RFC3339", str)
	}

	return nil, errors.New("right-hand side must be a literal, list literal, or timestamp() call")
}

func validateLiteral(kind ValueKind, op Op, value any) error {
	switch kind {
	case KindString:
		if op == OpIN {
			list, ok := value.([]string)
			if !ok {
				return fmt.Errorf("expected list of %s literals", kind)
			}
			if len(list) == 0 {
				return errors.New("list literal must not be empty")
			}
			for _, item := range list {
				if item == "" {
					return errors.New("list literal must not contain empty strings")
				}
			}
			return nil
		}
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
	case KindTimestamp:
		if _, ok := value.(time.Time); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
	default:
		return fmt.Errorf("unsupported field kind %s", kind)
	}
	return nil
}

func assignValue(field reflect.Value, value any) error {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return assignValue(field.Elem(), value)
	}
	if field.Kind() == reflect.Interface {
		field.Set(reflect.ValueOf(value))
		return nil
	}

	switch v := value.(type) {
	case string:
		// Equality on a list-typed destination narrows it to one element.
		if field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String {
			field.Set(reflect.ValueOf([]string{v}))
			return nil
		}
		if field.Kind() != reflect.String {
			return fmt.Errorf("expected string-compatible destination, got %s", field.Kind())
		}
		field.SetString(v)
	case []string:
		if field.Kind() != reflect.Slice || field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("expected slice of strings destination, got %s", field.Type())
		}
		clone := make([]string, len(v))
		copy(clone, v)
		field.Set(reflect.ValueOf(clone))
	case float64:
		return assignNumeric(field, v)
	case time.Time:
		if field.Type() != timeType {
			return fmt.Errorf("expected time.Time destination, got %s", field.Type())
		}
		field.Set(reflect.ValueOf(v))
	default:
		return fmt.Errorf("unsupported literal type %T", value)
	}
	return nil
}

func assignNumeric(field reflect.Value, value float64) error {
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		field.SetFloat(value)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if math.Trunc(value) != value {
			return fmt.Errorf("cannot assign non-integer value %v to integer field", value)
		}
		bits := field.Type().Bits()
		lo := -1 << (bits - 1)
		hi := (1 << (bits - 1)) - 1
		if value < float64(lo) || value > float64(hi) {
			return fmt.Errorf("value %v overflows integer field", value)
		}
		field.SetInt(int64(value))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if math.Trunc(value) != value || value < 0 {
			return fmt.Errorf("cannot assign %v to unsigned integer field", value)
		}
		bits := field.Type().Bits()
		hi := (uint64(1) << bits) - 1
		if value > float64(hi) {
			return fmt.Errorf("value %v overflows unsigned integer field", value)
		}
		field.SetUint(uint64(value))
		return nil
	default:
		return fmt.Errorf("numeric assignment requires integer or float field, got %s", field.Kind())
	}
}
