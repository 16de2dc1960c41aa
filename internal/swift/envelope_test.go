package swift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbridge/internal/parsererror"
)

const sampleMessage = `{1:F01BANKDEFFAXXX0123456789}{2:I940BANKGB2LXXXXN}{3:{108:MUR2025011501}{121:174c5bba-2f68-4a27-bd37-123456789abc}}{4:
:20:STMT001
:25:DE89370400440532013000
:62F:C250115EUR10500,00
-}{5:{CHK:123456789ABC}{PDE:}}`

func TestParseEnvelope(t *testing.T) {
	env, err := Parse(sampleMessage)
	require.NoError(t, err)

	assert.Equal(t, "F", env.Basic.AppID)
	assert.Equal(t, "01", env.Basic.ServiceID)
	assert.Equal(t, "BANKDEFFAXXX", env.Basic.LTAddress)
	assert.Equal(t, "0123", env.Basic.SessionNumber)
	assert.Equal(t, "456789", env.Basic.SequenceNumber)
	assert.Equal(t, "BANKDEFF", env.Basic.BIC())

	require.NotNil(t, env.Application)
	assert.Equal(t, DirectionInput, env.Application.Direction)
	assert.Equal(t, "940", env.MessageType())
	assert.Equal(t, "BANKGB2LXXXX", env.Application.ReceiverAddress)
	assert.Equal(t, "N", env.Application.Priority)

	require.NotNil(t, env.User)
	assert.Equal(t, "MUR2025011501", env.User.MUR)
	assert.Equal(t, "174c5bba-2f68-4a27-bd37-123456789abc", env.User.UETR)

	assert.Contains(t, env.Text, ":20:STMT001")
	assert.Contains(t, env.Text, ":62F:C250115EUR10500,00")

	require.NotNil(t, env.Trailer)
	assert.Equal(t, "123456789ABC", env.Trailer.Checksum)
	assert.True(t, env.Trailer.PossibleDuplicate)
	assert.False(t, env.Trailer.Training)
}

func TestParseOutputHeader(t *testing.T) {
	raw := `{1:F01BANKDEFFAXXX0123456789}{2:O9401200250115BANKGB2LAXXX22221234562501151301N}{4:
:20:REF
-}`
	env, err := Parse(raw)
	require.NoError(t, err)
	require.NotNil(t, env.Application)
	assert.Equal(t, DirectionOutput, env.Application.Direction)
	assert.Equal(t, "940", env.Application.MessageType)
	assert.Equal(t, "1200", env.Application.InputTime)
	assert.Equal(t, "250115BANKGB2LAXXX2222123456", env.Application.MIR)
	assert.Equal(t, "250115", env.Application.OutputDate)
	assert.Equal(t, "1301", env.Application.OutputTime)
	assert.Equal(t, "N", env.Application.Priority)
}

func TestParseMissingEnvelope(t *testing.T) {
	_, err := Parse(":20:STMT001\n:25:CH1234567890")
	require.Error(t, err)
	var missing *parsererror.MissingEnvelopeError
	assert.ErrorAs(t, err, &missing)
}

func TestParseUnterminatedTextBlock(t *testing.T) {
	_, err := Parse("{1:F01BANKDEFFAXXX0123456789}{4:\n:20:REF\n")
	require.Error(t, err)
	var structural *parsererror.StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Contains(t, structural.Error(), "-}")
}

func TestParseBasicHeaderTooShort(t *testing.T) {
	_, err := Parse("{1:F01SHORT}")
	require.Error(t, err)
	var structural *parsererror.StructuralError
	assert.ErrorAs(t, err, &structural)
}

func TestHasEnvelope(t *testing.T) {
	assert.True(t, HasEnvelope(sampleMessage))
	assert.False(t, HasEnvelope(":20:STMT001"))
}

func TestParseMultiple(t *testing.T) {
	envs, err := ParseMultiple(sampleMessage + "\n" + sampleMessage)
	require.NoError(t, err)
	require.Len(t, envs, 2)
	assert.Equal(t, envs[0].Basic.LTAddress, envs[1].Basic.LTAddress)
}

func TestGenerateRoundTrip(t *testing.T) {
	env, err := Parse(sampleMessage)
	require.NoError(t, err)

	reparsed, err := Parse(Generate(env))
	require.NoError(t, err)

	assert.Equal(t, env.Basic, reparsed.Basic)
	assert.Equal(t, env.Application, reparsed.Application)
	assert.Equal(t, env.User.MUR, reparsed.User.MUR)
	assert.Equal(t, env.User.UETR, reparsed.User.UETR)
	assert.Equal(t, env.Text, reparsed.Text)
	assert.Equal(t, env.Trailer.Checksum, reparsed.Trailer.Checksum)
	assert.Equal(t, env.Trailer.PossibleDuplicate, reparsed.Trailer.PossibleDuplicate)
}

func TestKeepsTextBlockBraces(t *testing.T) {
	raw := "{1:F01BANKDEFFAXXX0123456789}{4:\n:86:NARRATIVE {WITH BRACES}\n-}"
	env, err := Parse(raw)
	require.NoError(t, err)
	assert.Contains(t, env.Text, "{WITH BRACES}")
}
