// Command playground replays a captured bconsole "status ... running"
// output through the parser and prints the report, without bconsole.
//
//	bconsole -c bconsole.conf <<< $'status storage=File1 running\nquit' > sd.txt
//	go run ./playground -S File1 sd.txt
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/revpol/bwatch"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile | log.Lmicroseconds | log.Ldate)

	T_START := time.Now()
	defer func() {
		log.Println("all done: dt: " + time.Since(T_START).String())
	}()

	opts := bwatch.DefaultOptions()
	flag_storage := pflag.StringP("storage", "S", "", "storage name of the capture")
	flag_client := pflag.StringP("client", "C", "", "client name of the capture")
	pflag.VarP((*bwatch.YesNo)(&opts.ShowSpool), "spool_lines", "s",
		"print the storage spooling lines")
	pflag.VarP((*bwatch.YesNo)(&opts.StripJobNames), "strip_jobname", "j",
		"strip the date/time suffix from job names")
	pflag.VarP((*bwatch.YesNo)(&opts.ShowCloud), "cloud", "l",
		"print the storage cloud transfer status")
	pflag.Parse()

	target := bwatch.Target{Kind: bwatch.KindStorage, Name: *flag_storage}
	if *flag_client != "" {
		target = bwatch.Target{Kind: bwatch.KindClient, Name: *flag_client}
	}
	if target.Name == "" || pflag.NArg() != 1 {
		log.Fatalln("usage: playground (-S storage | -C client) capture.txt")
	}

	data, err := os.ReadFile(pflag.Arg(0))
	if err != nil {
		log.Fatalln("failed to read:", err)
	}

	st := bwatch.Parse(target, string(data), opts)
	fmt.Print(st.Render(opts))
	log.Println("jobs:", st.JobCount, "section missing:", st.SectionMissing)
}
