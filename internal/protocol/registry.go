package protocol

// DecodeHints supplies the external context a handful of Part kinds
// need before they can be decoded: Resultset and OutputParameters
// interpret their row bytes against a field list negotiated earlier in
// the same statement's lifetime rather than carrying their own.
type DecodeHints struct {
	ResultFields    []*FieldDescriptor
	ParameterFields []*ParameterDescriptor
	// AuthReply, when set, is used verbatim for an Authentication Part
	// instead of asking the registry to construct one: the reply shape
	// (init vs final) depends on which handshake step is in flight, a
	// fact only the caller driving the handshake knows.
	AuthReply partReader
}

// newPartReader constructs the zero value for pk, wired up with
// whatever DecodeHints it needs. Unrecognized kinds return nil so the
// caller can skip the Part body by its declared buffer length instead
// of aborting the reply.
func newPartReader(pk PartKind, hints DecodeHints) partReader {
	switch pk {
	case PkError:
		return &ErrorPart{}
	case PkConnectOptions:
		o := connectOptions{}
		return &o
	case PkClientContext:
		o := clientContext{}
		return &o
	case PkTopologyInformation:
		o := topologyInformation{}
		return &o
	case PkDbConnectInfo:
		o := dbConnectInfo{}
		return &o
	case PkCommand:
		return new(Command)
	case PkRowsAffected:
		return new(RowsAffected)
	case PkExecutionResult:
		return new(ExecutionResult)
	case PkTransactionFlags:
		f := transactionFlags{}
		return &f
	case PkStatementContext:
		c := statementContext{}
		return &c
	case PkStatementID:
		return new(StatementID)
	case PkResultsetID:
		return new(ResultsetID)
	case PkFetchSize:
		return new(FetchSize)
	case PkParameterMetadata:
		return &ParameterMetadata{}
	case PkResultMetadata:
		return &ResultSetMetadata{}
	case PkResultset:
		return &Resultset{Fields: hints.ResultFields}
	case PkOutputParameters:
		return &OutputParameters{Fields: hints.ParameterFields}
	case PkSessionContext:
		return new(SessionContext)
	case PkXATransactionInfo:
		return &XaTransactionID{}
	case PkReadLobReply:
		return &ReadLobReply{}
	case PkWriteLobReply:
		return &WriteLobReply{}
	case PkAuthentication:
		return hints.AuthReply
	default:
		return nil
	}
}
