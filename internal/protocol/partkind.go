package protocol

import "fmt"

// PartKind identifies the type of a Part in a request or reply.
type PartKind int8

// PartKind values, as transmitted by HANA. Not every named kind has an
// encoder or decoder here: a reply Part whose kind newPartReader does not
// construct is skipped by buffer length (see Part registry, §4.2).
const (
	PkNil                    PartKind = 0
	PkCommand                PartKind = 3
	PkResultset              PartKind = 5
	PkError                  PartKind = 6
	PkStatementID            PartKind = 10
	PkTransactionID          PartKind = 11
	PkRowsAffected           PartKind = 12
	PkResultsetID            PartKind = 13
	PkTopologyInformation    PartKind = 15
	PkTableLocation          PartKind = 16
	PkReadLobRequest         PartKind = 17
	PkReadLobReply           PartKind = 18
	PkAbapIStream            PartKind = 25
	PkAbapOStream            PartKind = 26
	PkCommandInfo            PartKind = 27
	PkWriteLobRequest        PartKind = 28
	PkClientContext          PartKind = 29
	PkWriteLobReply          PartKind = 30
	PkParameters             PartKind = 32
	PkAuthentication         PartKind = 33
	PkSessionContext         PartKind = 34
	PkClientID               PartKind = 35
	PkProfile                PartKind = 38
	PkStatementContext       PartKind = 39
	PkPartitionInformation   PartKind = 40
	PkOutputParameters       PartKind = 41
	PkConnectOptions         PartKind = 42
	PkCommitOptions          PartKind = 43
	PkFetchOptions           PartKind = 44
	PkFetchSize              PartKind = 45
	PkParameterMetadata      PartKind = 47
	PkResultMetadata         PartKind = 48
	PkFindLobRequest         PartKind = 49
	PkFindLobReply           PartKind = 50
	PkExecutionResult        PartKind = 31
	PkClientInfo             PartKind = 65
	PkStreamData             PartKind = 66
	PkOStreamResult          PartKind = 67
	PkFdaRequestMetadata     PartKind = 68
	PkFdaReplyMetadata       PartKind = 69
	PkTransactionFlags       PartKind = 64
	PkRowSlotImageParameters PartKind = 53
	PkRowSlotImageResultset  PartKind = 54
	PkRowSlotImageParamMeta  PartKind = 55
	PkRowSlotImageResultMeta PartKind = 56
	PkDbConnectInfo          PartKind = 82
	PkXATransactionInfo      PartKind = 83
	PkSessionVariable        PartKind = 84
	PkWorkloadReplayContext  PartKind = 85
)

var partKindName = map[PartKind]string{
	PkNil: "NIL", PkCommand: "COMMAND", PkResultset: "RESULTSET", PkError: "ERROR",
	PkStatementID: "STATEMENTID", PkTransactionID: "TRANSACTIONID", PkRowsAffected: "ROWSAFFECTED",
	PkResultsetID: "RESULTSETID", PkTopologyInformation: "TOPOLOGYINFORMATION", PkTableLocation: "TABLELOCATION",
	PkReadLobRequest: "READLOBREQUEST", PkReadLobReply: "READLOBREPLY", PkCommandInfo: "COMMANDINFO",
	PkWriteLobRequest: "WRITELOBREQUEST", PkClientContext: "CLIENTCONTEXT", PkWriteLobReply: "WRITELOBREPLY",
	PkParameters: "PARAMETERS", PkAuthentication: "AUTHENTICATION", PkSessionContext: "SESSIONCONTEXT",
	PkClientID: "CLIENTID", PkStatementContext: "STATEMENTCONTEXT", PkOutputParameters: "OUTPUTPARAMETERS",
	PkConnectOptions: "CONNECTOPTIONS", PkCommitOptions: "COMMITOPTIONS", PkFetchOptions: "FETCHOPTIONS",
	PkFetchSize: "FETCHSIZE", PkParameterMetadata: "PARAMETERMETADATA", PkResultMetadata: "RESULTMETADATA",
	PkClientInfo: "CLIENTINFO", PkTransactionFlags: "TRANSACTIONFLAGS", PkDbConnectInfo: "DBCONNECTINFO",
	PkXATransactionInfo: "XATRANSACTIONINFO",
}

func (k PartKind) String() string {
	if s, ok := partKindName[k]; ok {
		return s
	}
	return fmt.Sprintf("PartKind(%d)", int8(k))
}

// PartAttributes are per-Part flags carried in the Part header.
type PartAttributes int8

// PartAttributes bit flags.
const (
	PaLastPacket      PartAttributes = 0x01
	PaNextPacket      PartAttributes = 0x02
	PaFirstPacket     PartAttributes = 0x04
	PaRowNotFound     PartAttributes = 0x08
	PaResultsetClosed PartAttributes = 0x10
)

// LastPacket reports whether this is the final packet of a result-set.
func (a PartAttributes) LastPacket() bool { return a&PaLastPacket != 0 }

// ResultsetClosed reports whether the server has closed the result-set.
func (a PartAttributes) ResultsetClosed() bool { return a&PaResultsetClosed != 0 }

// RowNotFound reports whether a fetch found no row (empty result-set edge case).
func (a PartAttributes) RowNotFound() bool { return a&PaRowNotFound != 0 }
