package catalog

import (
	"fmt"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
)

// Operation names.
const (
	OpBitcoinOverview   = "bitcoin_overview"
	OpHashprice         = "hashprice"
	OpNetworkHashrate   = "network_hashrate"
	OpNetworkDifficulty = "network_difficulty"
	OpOHLCPrices        = "ohlc_prices"
	OpASICPriceIndex    = "asic_price_index"
)

// Parameter names as sent in GraphQL variables.
const (
	ParamInterval = "inputInterval"
	ParamCurrency = "currency"
	ParamFirst    = "first"
	ParamLast     = "last"
	ParamSlug     = "inputSlug"
)

// priceField is removed from every network difficulty record.
const priceField = "price"

const bitcoinOverviewQuery = `query bitcoinOverviews($last: Int!) {
  bitcoinOverviews(last: $last) {
    nodes {
      timestamp
      hashpriceUsd
      networkHashrate7D
      networkDiff
      estDiffAdj
      coinbaseRewards24H
      feesBlocks24H
      marketcap
      nextHalvingCount
      nextHalvingDate
      txRateAvg7D
    }
  }
}`

// hashpriceQueryTemplate takes the currency specific field name.
const hashpriceQueryTemplate = `query get_hashprice($inputInterval: ChartsInterval!, $first: Int) {
  getHashprice(inputInterval: $inputInterval, first: $first) {
    nodes {
      timestamp
      %s
    }
  }
}`

const networkHashrateQuery = `query get_network_hashrate($inputInterval: ChartsInterval!, $first: Int) {
  getNetworkHashrate(inputInterval: $inputInterval, first: $first) {
    nodes {
      timestamp
      networkHashrate
    }
  }
}`

// chartQuery is shared by every getChartBySlug operation.
const chartQuery = `query %s($inputInterval: ChartsInterval, $inputSlug: String) {
  getChartBySlug(inputInterval: $inputInterval, inputSlug: $inputSlug) {
    data
  }
}`

var (
	chartPath = []string{"data", "getChartBySlug", "data"}

	timeSeriesIntervals = []hashrateindex.Interval{
		hashrateindex.Interval1Day,
		hashrateindex.Interval7Days,
		hashrateindex.Interval1Month,
		hashrateindex.Interval3Months,
		hashrateindex.Interval1Year,
		hashrateindex.IntervalAll,
	}
	difficultyIntervals = []hashrateindex.Interval{
		hashrateindex.Interval3Months,
		hashrateindex.Interval6Months,
		hashrateindex.Interval1Year,
		hashrateindex.Interval3Years,
		hashrateindex.IntervalAll,
	}
	asicIntervals = []hashrateindex.Interval{
		hashrateindex.Interval3Months,
		hashrateindex.Interval6Months,
		hashrateindex.Interval1Year,
		hashrateindex.IntervalAll,
	}
)

var defaultCatalog = mustNew(
	BitcoinOverview(),
	Hashprice(),
	NetworkHashrate(),
	NetworkDifficulty(),
	OHLCPrices(),
	ASICPriceIndex(),
)

// Default returns the catalog of every Hashrate Index operation.
func Default() *Catalog {
	return defaultCatalog
}

func mustNew(operations ...*Operation) *Catalog {
	catalog, err := New(operations...)
	if err != nil {
		panic(err)
	}

	return catalog
}

// BitcoinOverview fetches the most recent network overview snapshot.
func BitcoinOverview() *Operation {
	return &Operation{
		Name:        OpBitcoinOverview,
		Description: "Bitcoin network data overview stats",
		Params: []Param{
			{Name: ParamLast, Kind: KindInt, Default: constants.OverviewPageSize},
		},
		Path: nodesPath("bitcoinOverviews"),
		build: func(values Values) (*hashrateindex.GraphQLRequest, error) {
			return &hashrateindex.GraphQLRequest{
				Query:     bitcoinOverviewQuery,
				Variables: map[string]interface{}{ParamLast: values[ParamLast]},
			}, nil
		},
	}
}

// Hashprice substitutes "{currency}Hashprice" into the query text and passes
// the interval and page size as variables.
func Hashprice() *Operation {
	return &Operation{
		Name:        OpHashprice,
		Description: "Bitcoin hashprice for an interval in USD or BTC",
		Params: []Param{
			{Name: ParamInterval, Kind: KindInterval, Required: true},
			{Name: ParamCurrency, Kind: KindCurrency, Required: true},
			{Name: ParamFirst, Kind: KindInt, Default: constants.DefaultPageSize},
		},
		Path:      nodesPath("getHashprice"),
		Intervals: timeSeriesIntervals,
		build: func(values Values) (*hashrateindex.GraphQLRequest, error) {
			currency, _ := values[ParamCurrency].(hashrateindex.Currency)

			return &hashrateindex.GraphQLRequest{
				Query: fmt.Sprintf(hashpriceQueryTemplate, HashpriceField(currency)),
				Variables: map[string]interface{}{
					ParamInterval: values[ParamInterval],
					ParamFirst:    values[ParamFirst],
				},
			}, nil
		},
	}
}

// HashpriceField returns the query field selected for currency.
func HashpriceField(currency hashrateindex.Currency) string {
	return string(currency) + "Hashprice"
}

// NetworkHashrate returns the network hashrate series.
func NetworkHashrate() *Operation {
	return &Operation{
		Name:        OpNetworkHashrate,
		Description: "Bitcoin network hashrate for an interval",
		Params: []Param{
			{Name: ParamInterval, Kind: KindInterval, Required: true},
			{Name: ParamFirst, Kind: KindInt, Default: constants.DefaultPageSize},
		},
		Path:      nodesPath("getNetworkHashrate"),
		Intervals: timeSeriesIntervals,
		build: func(values Values) (*hashrateindex.GraphQLRequest, error) {
			return &hashrateindex.GraphQLRequest{
				Query: networkHashrateQuery,
				Variables: map[string]interface{}{
					ParamInterval: values[ParamInterval],
					ParamFirst:    values[ParamFirst],
				},
			}, nil
		},
	}
}

// NetworkDifficulty returns network difficulty. The chart also carries the
// bitcoin price, which is stripped from every record.
func NetworkDifficulty() *Operation {
	return &Operation{
		Name:        OpNetworkDifficulty,
		Description: "Bitcoin network difficulty for an interval",
		Params: []Param{
			{Name: ParamInterval, Kind: KindInterval, Required: true},
		},
		Path:      chartPath,
		Intervals: difficultyIntervals,
		build:     chartBuilder("get_price_difficulty", fixedSlug(constants.SlugPriceAndDifficulty)),
		transform: dropField(priceField),
	}
}

// OHLCPrices returns bitcoin open/high/low/close prices.
func OHLCPrices() *Operation {
	return &Operation{
		Name:        OpOHLCPrices,
		Description: "Bitcoin OHLC prices for an interval",
		Params: []Param{
			{Name: ParamInterval, Kind: KindInterval, Required: true},
		},
		Path:      chartPath,
		Intervals: timeSeriesIntervals,
		build:     chartBuilder("get_ohlc_prices", fixedSlug(constants.SlugOHLC)),
	}
}

// ASICPriceIndex returns the ASIC price index chart for a currency.
func ASICPriceIndex() *Operation {
	return &Operation{
		Name:        OpASICPriceIndex,
		Description: "ASIC price index for an interval in USD or BTC",
		Params: []Param{
			{Name: ParamInterval, Kind: KindInterval, Required: true},
			{Name: ParamCurrency, Kind: KindCurrency, Required: true},
		},
		Path:      chartPath,
		Intervals: asicIntervals,
		build: chartBuilder("get_asic_price_index", func(values Values) string {
			currency, _ := values[ParamCurrency].(hashrateindex.Currency)

			return ASICPriceIndexSlug(currency)
		}),
	}
}

// ASICPriceIndexSlug returns the chart slug for currency.
func ASICPriceIndexSlug(currency hashrateindex.Currency) string {
	return constants.SlugASICPriceIndexPrefix + string(currency)
}

func nodesPath(root string) []string {
	return []string{"data", root, "nodes"}
}

func fixedSlug(slug string) func(Values) string {
	return func(Values) string { return slug }
}

func chartBuilder(queryName string, slug func(Values) string) BuildFunc {
	query := fmt.Sprintf(chartQuery, queryName)

	return func(values Values) (*hashrateindex.GraphQLRequest, error) {
		return &hashrateindex.GraphQLRequest{
			Query: query,
			Variables: map[string]interface{}{
				ParamInterval: values[ParamInterval],
				ParamSlug:     slug(values),
			},
		}, nil
	}
}

func dropField(field string) TransformFunc {
	return func(records []*hashrateindex.Record) []*hashrateindex.Record {
		for _, record := range records {
			record.Delete(field)
		}

		return records
	}
}
