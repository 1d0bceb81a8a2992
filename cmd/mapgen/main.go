package main

import (
	"fmt"
	"image"
	_ "image/png"
	"log"
	"os"
	"sort"

	"github.com/bodgit/mapgen"
	"github.com/bodgit/mapgen/province"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const defaultMaxProvinces = 256

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if c.Bool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// Use the table in --db if given, otherwise the built-in one
func loadTable(c *cli.Context) (*province.Table, error) {
	if c.String("db") == "" {
		return province.DefaultTable(), nil
	}

	db, err := mapgen.OpenTableDB(c.String("db"))
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.Table()
}

func generate(c *cli.Context) error {
	in, out := mapgen.DefaultInput, mapgen.DefaultOutput
	if c.NArg() > 0 {
		in = c.Args().Get(0)
	}
	if c.NArg() > 1 {
		out = c.Args().Get(1)
	}

	table, err := loadTable(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	logger := newLogger(c)
	logger.Debugf("Using color table with %d colors", table.Len())

	g := mapgen.New(table, c.Bool("strict"), logger)
	if err := g.Generate(in, out); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

var strictFlag = &cli.BoolFlag{
	Name:  "strict",
	Usage: "fail on colors not in the table instead of using province 0",
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatal(err)
	}

	app := cli.NewApp()

	app.Name = "mapgen"
	app.Usage = "Province map generator"
	app.Version = "1.0.0"
	app.ArgsUsage = "[IMAGE [OUTPUT]]"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MAPGEN_DB"},
			Usage:   "path to color table database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		strictFlag,
	}

	app.Action = generate

	app.Commands = []*cli.Command{
		{
			Name:        "generate",
			Usage:       "Generate a province map from an image",
			Description: fmt.Sprintf("IMAGE defaults to %s and OUTPUT to %s", mapgen.DefaultInput, mapgen.DefaultOutput),
			ArgsUsage:   "[IMAGE [OUTPUT]]",
			Flags:       []cli.Flag{strictFlag},
			Action:      generate,
		},
		{
			Name:        "import",
			Usage:       "Import an XML color table into the database",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if c.String("db") == "" {
					return cli.NewExitError("no database given, use --db or MAPGEN_DB", 1)
				}

				db, err := mapgen.NewTableDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				if err := db.ImportXML(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Print the color table as XML",
			Description: "",
			Action: func(c *cli.Context) error {
				table, err := loadTable(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := table.WriteXML(os.Stdout); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "suggest",
			Usage:       "Print a color table derived from an image",
			Description: "",
			ArgsUsage:   "IMAGE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "max",
					Value: defaultMaxProvinces,
					Usage: "maximum number of provinces",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				m, _, err := image.Decode(f)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := mapgen.Suggest(m, c.Int("max")).WriteXML(os.Stdout); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Show the dimensions and province sizes of a province map",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := mapgen.Inspect(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Printf("Width: %d\nHeight: %d\n", m.Width, m.Height)

				counts := m.Counts()
				ids := make([]int, 0, len(counts))
				for id := range counts {
					ids = append(ids, int(id))
				}
				sort.Ints(ids)

				for _, id := range ids {
					fmt.Printf("Province %d: %d pixels\n", id, counts[uint16(id)])
				}

				return nil
			},
		},
		{
			Name:        "render",
			Usage:       "Render a province map back to a PNG image",
			Description: "",
			ArgsUsage:   "FILE IMAGE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				table, err := loadTable(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := mapgen.Inspect(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := mapgen.Render(m, table, c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
