package protocol

// The option-part types in parts_options.go are unexported (they are
// pure wire plumbing), so ConnectionCore builds and reads them through
// this file's exported functions instead of touching plainOptions
// directly.

// ConnectParams collects the negotiable CONNECT-time settings a
// Connector supplies.
type ConnectParams struct {
	Locale            string
	DataFormatVersion int32
	DriverName        string
	DriverVersion     string
	ApplicationName   string
}

// NewConnectOptionsRequest builds the ConnectOptions Part sent on the
// second CONNECT round trip, alongside the auth final request and the
// ClientID.
func NewConnectOptionsRequest(p ConnectParams) partWriter {
	o := connectOptions{}
	o.set(coCompleteArrayExecution, true)
	o.set(coDistributionEnabled, false)
	o.set(coDataFormatVersion2, p.DataFormatVersion)
	o.set(coSplitBatchCommands, true)
	o.set(coClientDistributionMode, int32(0)) // off: no client-side statement routing
	o.set(coCompleteDatatypeSupport, true)
	if p.Locale != "" {
		o.set(coClientLocale, p.Locale)
	}
	return o
}

// NewClientContextRequest builds the ClientContext Part identifying this
// driver to the server, sent alongside ConnectOptions.
func NewClientContextRequest(p ConnectParams) partWriter {
	o := clientContext{}
	o[int8(ccoClientVersion)] = p.DriverVersion
	o[int8(ccoClientType)] = p.DriverName
	if p.ApplicationName != "" {
		o[int8(ccoClientApplicationProgram)] = p.ApplicationName
	}
	return o
}

// NewDbConnectInfoRequest asks the SystemDB which host/port serves the
// named tenant database, ahead of a redirected reconnect.
func NewDbConnectInfoRequest(databaseName string) partWriter {
	o := dbConnectInfo{}
	o[int8(dciDatabaseName)] = databaseName
	return o
}

// NewFetchOptionsRequest carries the server-side cursor id a FETCHNEXT
// applies to.
func NewFetchOptionsRequest(resultsetID uint64) partWriter {
	o := fetchOptions{}
	o[int8(foResultsetID)] = int64(resultsetID)
	return o
}

// NewCommitOptionsRequest carries the cursor-holdability choice for a
// COMMIT/ROLLBACK.
func NewCommitOptionsRequest(holdCursorsOverCommit bool) partWriter {
	o := commitOptions{}
	o[int8(coHoldCursorsOverCommit)] = holdCursorsOverCommit
	return o
}

// DataFormatVersion reads back the negotiated data format version from a
// reply's ConnectOptions Part, if present.
func (r *Reply) DataFormatVersion() (int32, bool) {
	p := r.Part(PkConnectOptions)
	if p == nil {
		return 0, false
	}
	co, ok := p.Value.(*connectOptions)
	if !ok {
		return 0, false
	}
	v, ok := co.get(coDataFormatVersion2)
	if !ok {
		return 0, false
	}
	n, ok := v.(int32)
	return n, ok
}

// DbConnectInfoRedirect reads back a DbConnectInfo Part, reporting the
// tenant's index server host/port and whether the current connection is
// already attached to it.
func (r *Reply) DbConnectInfoRedirect() (host string, port int32, connected bool, ok bool) {
	p := r.Part(PkDbConnectInfo)
	if p == nil {
		return "", 0, false, false
	}
	info, isDCI := p.Value.(*dbConnectInfo)
	if !isDCI {
		return "", 0, false, false
	}
	h, _ := info.host()
	pt, _ := info.port()
	return h, pt, info.isConnected(), true
}

// SessionContextToken reads back the SessionContext Part, if the server
// sent one, for the driver to echo on subsequent requests.
func (r *Reply) SessionContextToken() (SessionContext, bool) {
	p := r.Part(PkSessionContext)
	if p == nil {
		return nil, false
	}
	sc, ok := p.Value.(*SessionContext)
	if !ok {
		return nil, false
	}
	return *sc, true
}

// Committed/RolledBack report the TransactionFlags a reply carried, if
// any (§4.5): a statement that changed transaction state announces it
// here rather than requiring the caller to track it independently.
func (r *Reply) Committed() bool {
	p := r.Part(PkTransactionFlags)
	if p == nil {
		return false
	}
	tf, ok := p.Value.(*transactionFlags)
	return ok && tf.committed()
}

func (r *Reply) RolledBack() bool {
	p := r.Part(PkTransactionFlags)
	if p == nil {
		return false
	}
	tf, ok := p.Value.(*transactionFlags)
	return ok && tf.rolledBack()
}
