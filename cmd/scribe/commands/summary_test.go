package commands_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"go.trai.ch/scribe/cmd/scribe/commands"
	"go.trai.ch/scribe/internal/core/domain"
)

func TestRenderSummary(t *testing.T) {
	key := domain.RemoteKey{Account: "alice.near", Kind: domain.KindWidget, Name: "x"}
	cost := domain.DefaultCostPerByte()

	tests := []struct {
		name       string
		funded     int64
		goldenName string
	}{
		{name: "new storage", funded: 0, goldenName: "summary_new"},
		{name: "partly funded", funded: 30, goldenName: "summary_funded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prepared := domain.PreparedCommit{
				Key:          key,
				Payload:      key.Document(domain.Tree{"": "A"}),
				PayloadBytes: 40,
				FundedBytes:  tt.funded,
			}
			prepared.RequiredDeposit = domain.RequiredDeposit(prepared.PayloadBytes, tt.funded, cost)

			buf := &bytes.Buffer{}
			err := commands.RenderSummary(buf, commands.Summary{
				Prepared:     prepared,
				CostPerByte:  new(big.Int).Set(cost),
				ExtraOptions: domain.DefaultExtraStorageOptions(),
			})
			require.NoError(t, err)

			goldie.New(t).Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}
