package bibtex

const wassermanBib = "@article{Wasserman_2018,\n" +
	"\tdoi = {10.1146/annurev-statistics-031017-100045},\n" +
	"\turl = {https://doi.org/10.1146%2Fannurev-statistics-031017-100045},\n" +
	"\tyear = 2018,\n" +
	"\tmonth = {mar},\n" +
	"\tpublisher = {Annual Reviews},\n" +
	"\tvolume = {5},\n" +
	"\tnumber = {1},\n" +
	"\tpages = {501--532},\n" +
	"\tauthor = {Larry Wasserman},\n" +
	"\ttitle = {Topological Data Analysis},\n" +
	"\tjournal = {Annual Review of Statistics and Its Application}\n" +
	"}"

const bronsteinBib = "@misc{bronstein2021geometric,\n" +
	"      title={Geometric Deep Learning: Grids, Groups, Graphs, Geodesics, and Gauges}, \n" +
	"      author={Michael M. Bronstein and Joan Bruna and Taco Cohen and Petar Veličković},\n" +
	"      year={2021},\n" +
	"      eprint={2104.13478},\n" +
	"      archivePrefix={arXiv},\n" +
	"      primaryClass={cs.LG}\n" +
	"}"
