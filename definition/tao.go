package definition

import "sync"

// Product is the ORB every group in the table exercises.
const Product = "TAO"

// Service configuration fragments, kept exactly as the harness appends them
// (leading space included).
const (
	ThreadPoolConf          = " -ORBSvcConf svc.threadPool.conf"
	ThreadPerConnectionConf = " -ORBSvcConf svc.threadPerConnection.conf"
	ReactiveConf            = " -ORBSvcConf svc.reactive.conf"
	BlockingConf            = " -ORBSvcConf svc.blocking.conf"
)

// Variant labels.
const (
	LabelOneThreadPool  = "1tp"
	LabelFourThreadPool = "4tp"
	LabelThreadPerConn  = "tpc"
	LabelTPCBlocking    = "tpc blocking"
)

const (
	threadPoolOne  = ThreadPoolConf + " threadPool 1"
	threadPoolFour = ThreadPoolConf + " threadPool 4"

	payload2K  = "2000"
	payload10K = "10000"
)

var table = sync.OnceValue(build)

// Definitions returns the full table in authoring order. The shared table
// is built once; callers receive their own copy.
func Definitions() []Group {
	src := table()

	out := make([]Group, len(src))
	for i, g := range src {
		out[i] = g.clone()
	}

	return out
}

// Lookup returns the group with the given title.
func Lookup(title string) (Group, bool) {
	for _, g := range table() {
		if g.Title == title {
			return g.clone(), true
		}
	}

	return Group{}, false
}

func build() []Group {
	return []Group{
		group("latency twoway", variants("latency twoway", "latency twoway", nil)),
		group("latency twoway with 2k payload",
			variants("latency twoway", "latency twoway", payload(payload2K))),
		group("latency twoway with 10k payload",
			variants("latency twoway", "latency twoway", payload(payload10K))),

		group("latency oneway", variants("latency oneway", "latency oneway", nil)),
		group("latency oneway with 2k payload",
			variants("latency oneway", "latency oneway", payload(payload2K))),
		group("latency oneway with 10k payload",
			variants("latency oneway", "latency oneway", payload(payload10K))),

		// Blocking client mode cannot drive asynchronous invocations.
		group("latency twoway AMI", reactiveVariants("latency twoway ami", nil)),
		group("latency twoway AMI with 2k payload",
			reactiveVariants("latency twoway ami", payload(payload2K))),
		group("latency twoway AMI with 10k payload",
			reactiveVariants("latency twoway ami", payload(payload10K))),

		group("throughput byte",
			variants("throughput byte", "latency throughput byte", nil)),
		group("throughput string sequence",
			variants("throughput string", "throughput string", nil)),
		group("throughput long string sequence",
			variants("throughput longString", "throughput longString", nil)),
		group("throughput struct sequence",
			variants("throughput struct", "throughput struct", nil)),
	}
}

func group(title string, cases []Case) Group {
	return Group{Product: Product, Title: title, Cases: cases}
}

func payload(size string) []Override {
	return []Override{{Key: PayloadKey, Value: size}}
}

// reactiveVariants returns the thread pool and thread-per-connection cases
// driven by a reactive client.
func reactiveVariants(selector string, ov []Override) []Case {
	client := ReactiveConf + " " + selector

	return []Case{
		{Label: LabelOneThreadPool, ClientArgs: client, ServerArgs: threadPoolOne, Overrides: ov},
		{Label: LabelFourThreadPool, ClientArgs: client, ServerArgs: threadPoolFour, Overrides: ov},
		{Label: LabelThreadPerConn, ClientArgs: client, ServerArgs: ThreadPerConnectionConf, Overrides: ov},
	}
}

// variants returns the reactive cases plus the blocking thread-per-connection
// case, whose client selector is given separately.
func variants(selector, blockingSelector string, ov []Override) []Case {
	cases := reactiveVariants(selector, ov)

	return append(cases, Case{
		Label:      LabelTPCBlocking,
		ClientArgs: BlockingConf + " " + blockingSelector,
		ServerArgs: ThreadPerConnectionConf,
		Overrides:  ov,
	})
}
