package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/usecase"
)

var listingsCmd = &cobra.Command{
	Use:     "listings",
	Aliases: []string{"listing", "l"},
	Short:   "Publish and follow your own listings (requires login)",
}

var listingFields struct {
	name, description, state, city, category, condition string
	price                                               float64
	images                                              []string
}

// openImages opens every --image file. The returned func closes them.
func openImages() ([]models.Upload, func(), error) {
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	uploads := make([]models.Upload, 0, len(listingFields.images))
	for _, path := range listingFields.images {
		u, closeUpload, err := openUpload(path)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, closeUpload)
		uploads = append(uploads, *u)
	}
	return uploads, closeAll, nil
}

var listingsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a product",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		images, closeImages, err := openImages()
		if err != nil {
			return err
		}
		defer closeImages()

		var listings usecase.ListingUsecase
		stop, err := withApp(cmd, &listings)
		if err != nil {
			return err
		}
		defer stop()

		p, err := listings.CreateListing(cmd.Context(), models.CreateListingRequest{
			Name:        listingFields.name,
			Description: listingFields.description,
			Price:       listingFields.price,
			State:       listingFields.state,
			City:        listingFields.city,
			Category:    listingFields.category,
			Condition:   listingFields.condition,
			Images:      images,
		})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), p, productView(p))
	},
}

var listingsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change some fields of a product you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req models.UpdateListingRequest
		flags := cmd.Flags()
		for flag, dst := range map[string]**string{
			"name":        &req.Name,
			"description": &req.Description,
			"state":       &req.State,
			"city":        &req.City,
			"category":    &req.Category,
			"condition":   &req.Condition,
		} {
			if flags.Changed(flag) {
				v, _ := flags.GetString(flag)
				*dst = &v
			}
		}
		if flags.Changed("price") {
			req.Price = &listingFields.price
		}
		images, closeImages, err := openImages()
		if err != nil {
			return err
		}
		defer closeImages()
		req.Images = images

		var listings usecase.ListingUsecase
		stop, err := withApp(cmd, &listings)
		if err != nil {
			return err
		}
		defer stop()

		p, err := listings.UpdateListing(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), p, productView(p))
	},
}

var listingsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a product you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var listings usecase.ListingUsecase
		stop, err := withApp(cmd, &listings)
		if err != nil {
			return err
		}
		defer stop()

		if err := listings.DeleteListing(cmd.Context(), args[0]); err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), map[string]string{"deleted": args[0]}, messageView("deleted", args[0]))
	},
}

var listingsInterestCmd = &cobra.Command{
	Use:   "interest <id>",
	Short: "Tell the owner you are interested in a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var listings usecase.ListingUsecase
		stop, err := withApp(cmd, &listings)
		if err != nil {
			return err
		}
		defer stop()

		res, err := listings.ShowInterest(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), res, messageView("message", res.Message))
	},
}

func listCommand(use, short string, list func(usecase.ListingUsecase, *cobra.Command) ([]models.Product, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var listings usecase.ListingUsecase
			stop, err := withApp(cmd, &listings)
			if err != nil {
				return err
			}
			defer stop()

			products, err := list(listings, cmd)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), products, productsView(products))
		},
	}
}

var listingsMineCmd = listCommand("mine", "Products you published",
	func(l usecase.ListingUsecase, cmd *cobra.Command) ([]models.Product, error) {
		return l.MyListings(cmd.Context())
	})

var listingsInterestedCmd = listCommand("interested", "Products you showed interest in",
	func(l usecase.ListingUsecase, cmd *cobra.Command) ([]models.Product, error) {
		return l.InterestedListings(cmd.Context())
	})

var listingsOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Your products and the ones you are interested in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var listings usecase.ListingUsecase
		stop, err := withApp(cmd, &listings)
		if err != nil {
			return err
		}
		defer stop()

		overview, err := listings.Overview(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), overview, func() tableView {
			rows := productRows(overview.Mine)
			for _, r := range productRows(overview.Interested) {
				r[0] = "* " + r[0]
				rows = append(rows, r)
			}
			return tableView{headers: productHeaders, rows: rows, footer: "* interested"}
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{listingsCreateCmd, listingsUpdateCmd} {
		f := c.Flags()
		f.StringVar(&listingFields.name, "name", "", "product name")
		f.StringVar(&listingFields.description, "description", "", "description")
		f.Float64Var(&listingFields.price, "price", 0, "price")
		f.StringVar(&listingFields.state, "state", "", "state code, e.g. SP")
		f.StringVar(&listingFields.city, "city", "", "city")
		f.StringVar(&listingFields.category, "category", "", "category")
		f.StringVar(&listingFields.condition, "condition", "", "condition, e.g. Novo")
		f.StringArrayVar(&listingFields.images, "image", nil, "image file, repeatable")
	}

	listingsCmd.AddCommand(
		listingsCreateCmd,
		listingsUpdateCmd,
		listingsDeleteCmd,
		listingsInterestCmd,
		listingsMineCmd,
		listingsInterestedCmd,
		listingsOverviewCmd,
	)
}
