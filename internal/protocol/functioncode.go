package protocol

// MessageType identifies the kind of request being sent; the segment
// header's MessageType field carries this on the wire.
type MessageType int8

// MessageType values used on requests.
const (
	MtNil             MessageType = 0
	MtExecuteDirect   MessageType = 2
	MtPrepare         MessageType = 3
	MtExecute         MessageType = 13
	MtWriteLob        MessageType = 16
	MtReadLob         MessageType = 17
	MtFindLob         MessageType = 18
	MtAuthenticate    MessageType = 65
	MtConnect         MessageType = 66
	MtCommit          MessageType = 67
	MtRollback        MessageType = 68
	MtCloseResultset  MessageType = 69
	MtDropStatementID MessageType = 70
	MtFetchNext       MessageType = 71
	MtDisconnect      MessageType = 77
)

// FunctionCode classifies the reply to a request, echoed in the segment
// header so the caller can tell a row-count reply from a result-set reply
// from a procedure-call reply without inspecting individual Parts.
type FunctionCode int16

// FunctionCode values, as returned by HANA in the reply segment header.
const (
	FcNil                    FunctionCode = 0
	FcDDL                    FunctionCode = 1
	FcInsert                 FunctionCode = 2
	FcUpdate                 FunctionCode = 3
	FcDelete                 FunctionCode = 4
	FcSelect                 FunctionCode = 5
	FcSelectForUpdate        FunctionCode = 6
	FcExplain                FunctionCode = 7
	FcDBProcedureCall        FunctionCode = 8
	FcDBProcedureCallResult  FunctionCode = 9
	FcFetch                  FunctionCode = 10
	FcCommit                 FunctionCode = 11
	FcRollback               FunctionCode = 12
	FcSavepoint              FunctionCode = 13
	FcConnect                FunctionCode = 14
	FcWriteLob               FunctionCode = 15
	FcReadLob                FunctionCode = 16
	FcPing                   FunctionCode = 17
	FcDisconnect             FunctionCode = 18
	FcCloseResultset         FunctionCode = 19
	FcDropStatementID        FunctionCode = 21
	FcExecuteDirect          FunctionCode = 22
)

// isProcedureCall reports whether the reply carrying this code belongs to
// a stored-procedure CALL, and therefore demuxes output parameters rather
// than a single result-set.
func (fc FunctionCode) isProcedureCall() bool {
	return fc == FcDBProcedureCall || fc == FcDBProcedureCallResult
}

// producesResultset reports whether a reply of this kind is expected to
// carry ResultSetMetadata/ResultSet Parts.
func (fc FunctionCode) producesResultset() bool {
	return fc == FcSelect || fc == FcSelectForUpdate || fc == FcExplain
}
