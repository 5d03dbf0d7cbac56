package diagnostic

import "fmt"

// Code catalog. The original source (original_source/crates/core/src/error/
// diagnostic/catalog.rs) reuses codes across unrelated diagnostics — most
// visibly CA_003 for both "table already exists" and "view already exists",
// and CA_005 across several column/index diagnostics. This catalog allocates
// one unique code per diagnostic instead, while recording the mapping back
// to the original's (now collided) code, so operators migrating
// dashboards/alerts off the original codes have something to grep for.
// OriginalCode below is that record; it is not used for dispatch anywhere
// in this engine.
type catalogEntry struct {
	Code         string
	OriginalCode string
}

var (
	namespaceAlreadyExists = catalogEntry{"CA_0001", "CA_001"}
	namespaceNotFound      = catalogEntry{"CA_0002", "CA_002"}
	tableAlreadyExists     = catalogEntry{"CA_0003", "CA_003"}
	viewAlreadyExists      = catalogEntry{"CA_0004", "CA_003"} // original collided with table-already-exists
	flowAlreadyExists      = catalogEntry{"CA_0030", "CA_030"}
	flowNotFound           = catalogEntry{"CA_0031", "CA_031"}
	columnAlreadyExists    = catalogEntry{"CA_0005", "CA_005"}
	columnNotFound         = catalogEntry{"CA_0006", "CA_005"} // original collided with column-already-exists
	ringBufferNotFound     = catalogEntry{"CA_0040", "CA_040"}
	seriesNotFound         = catalogEntry{"CA_0041", "CA_041"}
	subscriptionNotFound   = catalogEntry{"CA_0042", "CA_042"}
	dictionaryTypeMismatch = catalogEntry{"CA_0050", "CA_050"}
	transactionalDuplicate = catalogEntry{"CA_0060", "CA_060"}
	updateAfterDelete      = catalogEntry{"CA_0061", "CA_061"}
	deleteAfterDelete      = catalogEntry{"CA_0062", "CA_062"}
	invalidAutoIncrement   = catalogEntry{"CA_0070", "CA_070"}
	primaryKeyEmpty        = catalogEntry{"CA_0071", "CA_071"}
	indexTypeUnsupported   = catalogEntry{"CA_0080", "CA_080"}
	indexTypeDirMismatch   = catalogEntry{"CA_0081", "CA_081"}

	invalidDurationFormat     = catalogEntry{"TM_0001", "TM_001"}
	duplicateDurationComp     = catalogEntry{"TM_0002", "TM_002"}
	outOfOrderDurationComp    = catalogEntry{"TM_0003", "TM_003"}
	invalidUnitInContext      = catalogEntry{"TM_0004", "TM_004"}
	incompleteDuration        = catalogEntry{"TM_0005", "TM_005"}
	invalidDurationChar       = catalogEntry{"TM_0006", "TM_006"}
	invalidDurationComponent  = catalogEntry{"TM_0007", "TM_007"}

	notOperatorOnNonBoolean  = catalogEntry{"EX_0001", ""}
	arithPrefixOnNonNumeric  = catalogEntry{"EX_0002", ""}
	unsupportedCast          = catalogEntry{"EX_0003", ""}
	invalidCastParse         = catalogEntry{"EX_0004", ""}
	frameShapeMismatch       = catalogEntry{"EX_0005", ""}
	frameColumnLengthMismatch = catalogEntry{"EX_0006", ""}
	binaryOperandTypeMismatch = catalogEntry{"EX_0007", ""}
	logicalOperandNotBoolean  = catalogEntry{"EX_0008", ""}
	functionNotFound          = catalogEntry{"EX_0009", ""}
	functionArityMismatch     = catalogEntry{"EX_0010", ""}
	columnNotFoundInFrame     = catalogEntry{"EX_0011", ""}
	aggregateOutsideGroup     = catalogEntry{"EX_0012", ""}
	primaryKeyFieldUndefined  = catalogEntry{"EX_0013", ""}

	alreadyCommitted       = catalogEntry{"TX_0001", "TX_001"}
	alreadyRolledBack      = catalogEntry{"TX_0002", "TX_002"}
	conflictDetected       = catalogEntry{"TX_0003", "TX_003"}
	keyNotInDeclaredSet    = catalogEntry{"TX_0004", "TX_004"}
	emptyKeyset            = catalogEntry{"TX_0005", "TX_005"}
	preCommitAbort         = catalogEntry{"TX_0006", "TX_006"}

	storageIOFailure  = catalogEntry{"ST_0001", "ST_001"}
	parallelTaskPanic = catalogEntry{"PX_0001", "PX_001"}

	wireTruncated    = catalogEntry{"WR_0001", ""}
	wireUnknownType  = catalogEntry{"WR_0002", ""}
)

func mk(e catalogEntry, fragment Fragment, message, label, help string, notes ...string) *Error {
	return New(Diagnostic{
		Code:     e.Code,
		Fragment: fragment,
		Message:  message,
		Label:    label,
		Help:     help,
		Notes:    notes,
	})
}

// Catalog constructors.

func NamespaceAlreadyExists(f Fragment, name string) *Error {
	return mk(namespaceAlreadyExists, f, fmt.Sprintf("namespace `%s` already exists", name),
		"duplicate namespace definition", "choose a different name or drop the existing namespace first")
}

func NamespaceNotFound(f Fragment, name string) *Error {
	return mk(namespaceNotFound, f, fmt.Sprintf("namespace `%s` not found", name),
		"unknown namespace reference", "make sure the namespace exists before using it")
}

func TableAlreadyExists(f Fragment, namespace, table string) *Error {
	return mk(tableAlreadyExists, f, fmt.Sprintf("table `%s::%s` already exists", namespace, table),
		"duplicate table definition", "choose a different name or drop the existing table")
}

func ViewAlreadyExists(f Fragment, namespace, view string) *Error {
	return mk(viewAlreadyExists, f, fmt.Sprintf("view `%s::%s` already exists", namespace, view),
		"duplicate view definition", "choose a different name or drop the existing view")
}

func FlowAlreadyExists(f Fragment, namespace, flow string) *Error {
	return mk(flowAlreadyExists, f, fmt.Sprintf("flow `%s::%s` already exists", namespace, flow),
		"duplicate flow definition", "choose a different name or drop the existing flow")
}

func FlowNotFound(f Fragment, namespace, flow string) *Error {
	return mk(flowNotFound, f, fmt.Sprintf("flow `%s::%s` not found", namespace, flow),
		"unknown flow reference", "create the flow first")
}

func ColumnAlreadyExists(f Fragment, table, column string) *Error {
	return mk(columnAlreadyExists, f, fmt.Sprintf("column `%s` already exists on `%s`", column, table),
		"duplicate column definition", "choose a different name")
}

func ColumnNotFound(f Fragment, table, column string) *Error {
	return mk(columnNotFound, f, fmt.Sprintf("column `%s` not found on `%s`", column, table),
		"unknown column reference", "check the table's schema")
}

func RingBufferNotFound(f Fragment, name string) *Error {
	return mk(ringBufferNotFound, f, fmt.Sprintf("ring buffer `%s` not found", name), "unknown ring buffer", "")
}

func SeriesNotFound(f Fragment, name string) *Error {
	return mk(seriesNotFound, f, fmt.Sprintf("series `%s` not found", name), "unknown series", "")
}

func SubscriptionNotFound(f Fragment, name string) *Error {
	return mk(subscriptionNotFound, f, fmt.Sprintf("subscription `%s` not found", name), "unknown subscription", "")
}

func DictionaryTypeMismatch(f Fragment, expected, actual string) *Error {
	return mk(dictionaryTypeMismatch, f, fmt.Sprintf("dictionary type mismatch: expected %s, got %s", expected, actual),
		"type mismatch", "cast the value before insertion")
}

func TransactionalDuplicate(f Fragment, entity string) *Error {
	return mk(transactionalDuplicate, f, fmt.Sprintf("`%s` modified twice in the same transaction", entity),
		"duplicate modification", "combine the operations or split across transactions")
}

func UpdateAfterDelete(f Fragment, entity string) *Error {
	return mk(updateAfterDelete, f, fmt.Sprintf("cannot update `%s`: already deleted in this transaction", entity),
		"update after delete", "")
}

func DeleteAfterDelete(f Fragment, entity string) *Error {
	return mk(deleteAfterDelete, f, fmt.Sprintf("cannot delete `%s`: already deleted in this transaction", entity),
		"delete after delete", "")
}

func InvalidAutoIncrementType(f Fragment, typ string) *Error {
	return mk(invalidAutoIncrement, f, fmt.Sprintf("type `%s` cannot be auto-incremented", typ),
		"invalid auto-increment type", "use an integer column type")
}

func PrimaryKeyEmpty(f Fragment, table string) *Error {
	return mk(primaryKeyEmpty, f, fmt.Sprintf("primary key for `%s` has no columns", table),
		"empty primary key", "specify at least one column")
}

func IndexTypeUnsupported(f Fragment, typ string) *Error {
	return mk(indexTypeUnsupported, f, fmt.Sprintf("index type `%s` is not supported", typ), "unsupported index type", "")
}

func IndexTypeDirectionMismatch(f Fragment) *Error {
	return mk(indexTypeDirMismatch, f, "index column types and directions do not match in count",
		"type/direction mismatch", "")
}

// Temporal errors.

func InvalidDurationFormat(f Fragment) *Error {
	return mk(invalidDurationFormat, f, "invalid duration format", "malformed duration", "use ISO-8601, e.g. P1DT2H")
}

func DuplicateDurationComponent(f Fragment, component byte) *Error {
	return mk(duplicateDurationComp, f, fmt.Sprintf("duplicate duration component '%c'", component), "duplicate component", "")
}

func OutOfOrderDurationComponent(f Fragment, component byte) *Error {
	return mk(outOfOrderDurationComp, f, fmt.Sprintf("duration component '%c' is out of order", component), "out-of-order component", "order is Y,W,D then H,M,S")
}

func InvalidUnitInContext(f Fragment, unit byte, inTimePart bool) *Error {
	where := "date part"
	if inTimePart {
		where = "time part (after T)"
	}
	return mk(invalidUnitInContext, f, fmt.Sprintf("invalid unit '%c' in %s", unit, where), "invalid unit", "")
}

func IncompleteDuration(f Fragment) *Error {
	return mk(incompleteDuration, f, "incomplete duration specification", "incomplete duration", "")
}

func InvalidDurationCharacter(f Fragment) *Error {
	return mk(invalidDurationChar, f, fmt.Sprintf("invalid character in duration '%s'", f.Text), "invalid character", "")
}

func InvalidDurationComponentValue(f Fragment, unit byte) *Error {
	return mk(invalidDurationComponent, f, fmt.Sprintf("invalid value for duration component '%c'", unit), "invalid component value", "")
}

// Expression errors.

func NotOnNonBoolean(f Fragment, typ string) *Error {
	return mk(notOperatorOnNonBoolean, f, fmt.Sprintf("`!` applied to non-boolean type `%s`", typ), "type error", "")
}

func ArithPrefixOnNonNumeric(f Fragment, typ string) *Error {
	return mk(arithPrefixOnNonNumeric, f, fmt.Sprintf("unary `+`/`-` applied to non-numeric type `%s`", typ), "type error", "")
}

func UnsupportedCast(f Fragment, from, to string) *Error {
	return mk(unsupportedCast, f, fmt.Sprintf("cannot cast `%s` to `%s`", from, to), "unsupported cast", "")
}

func InvalidCastParse(f Fragment, text, to string) *Error {
	return mk(invalidCastParse, f, fmt.Sprintf("cannot parse `%s` as `%s`", text, to), "invalid cast literal", "")
}

func BinaryOperandTypeMismatch(f Fragment, op, left, right string) *Error {
	return mk(binaryOperandTypeMismatch, f,
		fmt.Sprintf("operator `%s` has no definition for (`%s`, `%s`)", op, left, right),
		"incompatible operand types", "")
}

func LogicalOperandNotBoolean(f Fragment, op, typ string) *Error {
	return mk(logicalOperandNotBoolean, f,
		fmt.Sprintf("operator `%s` requires boolean operands, found `%s`", op, typ),
		"type error", "")
}

func FunctionNotFound(f Fragment, name string) *Error {
	return mk(functionNotFound, f, fmt.Sprintf("function `%s` is not registered", name), "unknown function", "")
}

func FunctionArityMismatch(f Fragment, name string, want, got int) *Error {
	return mk(functionArityMismatch, f,
		fmt.Sprintf("function `%s` expects %d argument(s), got %d", name, want, got),
		"wrong argument count", "")
}

func ColumnNotFoundInFrame(f Fragment, name string) *Error {
	return mk(columnNotFoundInFrame, f, fmt.Sprintf("column `%s` not found in current frame", name), "unknown column", "")
}

func AggregateOutsideGroup(f Fragment, name string) *Error {
	return mk(aggregateOutsideGroup, f,
		fmt.Sprintf("aggregate function `%s` used outside an aggregate context", name),
		"invalid aggregate usage", "")
}

func PrimaryKeyFieldUndefined(f Fragment, field string) *Error {
	return mk(primaryKeyFieldUndefined, f,
		fmt.Sprintf("primary key field `%s` is undefined", field),
		"missing primary key value", "every primary key field must be defined on insert")
}

func FrameShapeMismatch(names, cols int) *Error {
	return mk(frameShapeMismatch, InternalFragment(),
		fmt.Sprintf("column name count (%d) does not match column data count (%d)", names, cols),
		"malformed frame", "")
}

func FrameColumnLengthMismatch(name string, got, want int) *Error {
	return mk(frameColumnLengthMismatch, InternalFragment(),
		fmt.Sprintf("column `%s` has %d rows, expected %d", name, got, want),
		"malformed frame", "")
}

// Transaction errors.

func AlreadyCommitted() *Error {
	return mk(alreadyCommitted, InternalFragment(), "transaction already committed", "invalid transaction state", "")
}

func AlreadyRolledBack() *Error {
	return mk(alreadyRolledBack, InternalFragment(), "transaction already rolled back", "invalid transaction state", "")
}

func ConflictDetected() *Error {
	return mk(conflictDetected, InternalFragment(), "transaction conflicts with a concurrently committed transaction",
		"write conflict", "retry the transaction")
}

func KeyNotInDeclaredSet() *Error {
	return mk(keyNotInDeclaredSet, InternalFragment(), "key accessed outside the transaction's declared keyset",
		"undeclared key", "add the key to begin()'s keyset")
}

func EmptyKeyset() *Error {
	return mk(emptyKeyset, InternalFragment(), "single-version transactions require a non-empty declared keyset",
		"empty keyset", "")
}

func PreCommitAbort(cause error) *Error {
	e := mk(preCommitAbort, InternalFragment(), "pre-commit interceptor aborted the commit", "commit aborted", "")
	if de, ok := cause.(*Error); ok {
		d := e.D
		d.Cause = &de.D
		return &Error{D: d}
	}
	if cause != nil {
		d := e.D
		d.Notes = append(d.Notes, cause.Error())
		return &Error{D: d}
	}
	return e
}

// Storage errors.

func StorageIOFailure(cause error) *Error {
	e := mk(storageIOFailure, InternalFragment(), "storage backend I/O failure", "storage error", "")
	if cause != nil {
		d := e.D
		d.Notes = append(d.Notes, cause.Error())
		return &Error{D: d}
	}
	return e
}

// Parallel execution error.

func ParallelTaskPanic(recovered any) *Error {
	return mk(parallelTaskPanic, InternalFragment(), fmt.Sprintf("child task panicked during parallel execution: %v", recovered),
		"parallel execution failure", "")
}

// Wire codec errors.

func WireTruncated(cause error) *Error {
	e := mk(wireTruncated, InternalFragment(), "frame wire payload truncated",
		"truncated wire payload", "the sender closed the stream mid-frame or the payload was corrupted")
	if cause != nil {
		d := e.D
		d.Notes = append(d.Notes, cause.Error())
		return &Error{D: d}
	}
	return e
}

func WireUnknownType(tag byte) *Error {
	return mk(wireUnknownType, InternalFragment(), fmt.Sprintf("unknown column type tag %d in wire payload", tag),
		"unrecognized type tag", "the payload was produced by an incompatible wire version")
}
