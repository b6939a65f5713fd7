package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/usecase"
)

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product", "p"},
	Short:   "Browse products",
}

var productFilters struct {
	search, state, city, category, condition string
	minPrice, maxPrice                       float64
	page, limit                              int
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products matching the filters",
	Long: `List products from the first reachable source. Filters combine: search matches name
or description, state/category/condition match exactly ignoring case, city matches a part.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filters := models.ProductFilters{
			Search:    productFilters.search,
			State:     productFilters.state,
			City:      productFilters.city,
			Category:  productFilters.category,
			Condition: productFilters.condition,
		}
		flags := cmd.Flags()
		if flags.Changed("min-price") {
			filters.MinPrice = &productFilters.minPrice
		}
		if flags.Changed("max-price") {
			filters.MaxPrice = &productFilters.maxPrice
		}
		if flags.Changed("page") {
			filters.Page = &productFilters.page
		}
		if flags.Changed("limit") {
			filters.Limit = &productFilters.limit
		}

		var products usecase.ProductUsecase
		stop, err := withApp(cmd, &products)
		if err != nil {
			return err
		}
		defer stop()

		page, err := products.ListProducts(cmd.Context(), filters)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), page, pageView(page))
	},
}

var productsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var products usecase.ProductUsecase
		stop, err := withApp(cmd, &products)
		if err != nil {
			return err
		}
		defer stop()

		p, err := products.GetProductDetails(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), p, productView(p))
	},
}

func init() {
	f := productsListCmd.Flags()
	f.StringVarP(&productFilters.search, "search", "s", "", "text to look for in name or description")
	f.StringVar(&productFilters.state, "state", "", "state code, e.g. SP")
	f.StringVar(&productFilters.city, "city", "", "part of the city name")
	f.StringVar(&productFilters.category, "category", "", "category")
	f.StringVar(&productFilters.condition, "condition", "", "condition, e.g. Novo")
	f.Float64Var(&productFilters.minPrice, "min-price", 0, "minimum price")
	f.Float64Var(&productFilters.maxPrice, "max-price", 0, "maximum price")
	f.IntVar(&productFilters.page, "page", models.DefaultPage, "page number, from 1")
	f.IntVar(&productFilters.limit, "limit", models.DefaultLimit, "products per page")

	productsCmd.AddCommand(productsListCmd, productsGetCmd)
}
