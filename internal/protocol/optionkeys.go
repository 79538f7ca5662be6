package protocol

// connectOption enumerates ConnectOptions keys exchanged on CONNECT.
type connectOption int8

const (
	coConnectionID          connectOption = 1
	coCompleteArrayExecution connectOption = 2
	coClientLocale          connectOption = 3
	coSupportsLargeBulkOperations connectOption = 4
	coDistributionEnabled   connectOption = 5
	coPrimaryConnectionID   connectOption = 6
	coPrimaryConnectionHost connectOption = 7
	coPrimaryConnectionPort connectOption = 8
	coCompleteDatatypeSupport connectOption = 9
	coDataFormatVersion2    connectOption = 12
	coClientDistributionMode connectOption = 14
	coEngineDataFormatVersion connectOption = 15
	coSplitBatchCommands    connectOption = 20
	coUseTransactionFlagsOnly connectOption = 22
	coRowSlotImageParameter connectOption = 24
	coClientInfoNullValueSupported connectOption = 30
	coFullVersionString     connectOption = 32
	coDatabaseName          connectOption = 33
	coBuildPlatform         connectOption = 34
	coImplicitLobStreaming  connectOption = 40
	coCompressionLevelAndFlags connectOption = 41
)

// clientContextOption enumerates ClientContext keys.
type clientContextOption int8

const (
	ccoClientVersion            clientContextOption = 1
	ccoClientType               clientContextOption = 2
	ccoClientApplicationProgram clientContextOption = 3
)

// statementContextType enumerates StatementContext keys.
type statementContextType int8

const (
	sctStatementSequenceInfo statementContextType = 1
	sctServerProcessingTime statementContextType = 2
	sctSchemaName           statementContextType = 3
	sctFlagSet              statementContextType = 4
	sctServerCPUTime        statementContextType = 5
	sctServerMemoryUsage    statementContextType = 6
)

// transactionFlagType enumerates TransactionFlags keys.
type transactionFlagType int8

const (
	tfRolledBack             transactionFlagType = 0
	tfCommitted              transactionFlagType = 1
	tfNewIsolationLevel      transactionFlagType = 2
	tfDDLCommitModeChanged   transactionFlagType = 3
	tfWriteTransactionFlag   transactionFlagType = 4
	tfSessionclosingTransactionError transactionFlagType = 5
)

// topologyOption enumerates one TopologyInformation line's keys.
type topologyOption int8

const (
	toHostName      topologyOption = 1
	toHostPortNumber topologyOption = 2
	toLoadFactor    topologyOption = 3
	toIsMaster      topologyOption = 5
	toIsCurrentSession topologyOption = 6
	toServiceType   topologyOption = 7
	toNetworkDomain topologyOption = 8
	toIsStandby     topologyOption = 9
	toSiteType      topologyOption = 10
)

// dbConnectInfoOption enumerates DbConnectInfo keys, exchanged when the
// server redirects the client to a tenant database's index server.
type dbConnectInfoOption int8

const (
	dciDatabaseName    dbConnectInfoOption = 1
	dciHost            dbConnectInfoOption = 2
	dciPort            dbConnectInfoOption = 3
	dciIsConnected     dbConnectInfoOption = 4
)

// fetchOptionType enumerates FetchOptions keys.
type fetchOptionType int8

const (
	foResultsetID fetchOptionType = 0
)

// commitOptionType enumerates CommitOptions keys.
type commitOptionType int8

const (
	coHoldCursorsOverCommit commitOptionType = 0
)
